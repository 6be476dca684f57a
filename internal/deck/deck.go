// Package deck defines slide records and loads decks from textual sources.
package deck

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/lectern/internal/errors"
)

// Slide is one slide's content and narration state.
// Narration is nil until a narration pass writes it.
type Slide struct {
	Number    int      `json:"slide_number" yaml:"slide_number"`
	Text      string   `json:"text" yaml:"text"`
	Blocks    []string `json:"text_blocks,omitempty" yaml:"text_blocks,omitempty"`
	Narration *string  `json:"narration,omitempty" yaml:"narration,omitempty"`
}

// Deck is an ordered sequence of slides.
type Deck struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Source string  `json:"source,omitempty" yaml:"-"`
	Slides []Slide `json:"slides" yaml:"slides"`
}

// Format identifies a deck source encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	}
	return "", false
}

// Load reads and parses the deck at path.
// maxSlides <= 0 disables the size check.
func Load(path string, maxSlides int) (*Deck, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unsupported deck extension %q (want .json, .yaml, .yml, .md)", filepath.Ext(path)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}

	d, err := Parse(data, format, maxSlides)
	if err != nil {
		return nil, err
	}
	d.Source = path
	if d.Title == "" {
		d.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// Parse decodes a deck and validates its slide numbers.
func Parse(data []byte, format Format, maxSlides int) (*Deck, error) {
	var (
		d   *Deck
		err error
	)
	switch format {
	case FormatJSON:
		d, err = parseJSON(data)
	case FormatYAML:
		d, err = parseYAML(data)
	case FormatMarkdown:
		d = parseMarkdown(data)
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown deck format %q", format))
	}
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid %s deck: %v", format, err))
	}

	if err := Normalize(d.Slides, maxSlides); err != nil {
		return nil, err
	}
	return d, nil
}

// Normalize fills text from blocks, assigns missing slide numbers by
// position, and rejects non-positive or duplicate numbers.
func Normalize(slides []Slide, maxSlides int) error {
	if maxSlides > 0 && len(slides) > maxSlides {
		return errors.NewDeckTooLarge(maxSlides, len(slides))
	}

	seen := make(map[int]bool, len(slides))
	for i := range slides {
		s := &slides[i]
		if s.Text == "" && len(s.Blocks) > 0 {
			s.Text = strings.Join(s.Blocks, "\n")
		}
		if s.Number == 0 {
			s.Number = i + 1
		}
		if s.Number < 0 {
			return errors.NewInvalidRequest(fmt.Sprintf("slide %d: slide_number must be positive, got %d", i+1, s.Number))
		}
		if seen[s.Number] {
			return errors.NewInvalidRequest(fmt.Sprintf("duplicate slide_number %d", s.Number))
		}
		seen[s.Number] = true
	}
	return nil
}

func parseJSON(data []byte) (*Deck, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var slides []Slide
		if err := json.Unmarshal(trimmed, &slides); err != nil {
			return nil, err
		}
		return &Deck{Slides: slides}, nil
	}

	d := &Deck{}
	if err := json.Unmarshal(trimmed, d); err != nil {
		return nil, err
	}
	return d, nil
}

func parseYAML(data []byte) (*Deck, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return &Deck{}, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var slides []Slide
		if err := root.Decode(&slides); err != nil {
			return nil, err
		}
		return &Deck{Slides: slides}, nil
	}

	d := &Deck{}
	if err := root.Decode(d); err != nil {
		return nil, err
	}
	return d, nil
}
