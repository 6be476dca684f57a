package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/lectern/internal/errors"
)

func TestParse_JSONArray(t *testing.T) {
	d, err := Parse([]byte(`[{"slide_number":1,"text":"Intro"},{"text":"Body"}]`), FormatJSON, 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(d.Slides) != 2 {
		t.Fatalf("len(Slides) = %d, want 2", len(d.Slides))
	}
	if d.Slides[1].Number != 2 {
		t.Errorf("Slides[1].Number = %d, want 2 (assigned by position)", d.Slides[1].Number)
	}
	if d.Slides[0].Narration != nil {
		t.Error("Narration should be nil before a pass")
	}
}

func TestParse_JSONObjectWithBlocks(t *testing.T) {
	src := `{"title":"Q3 Review","slides":[{"slide_number":1,"text_blocks":["Revenue","Up 40%"]}]}`
	d, err := Parse([]byte(src), FormatJSON, 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Title != "Q3 Review" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Slides[0].Text != "Revenue\nUp 40%" {
		t.Errorf("Text = %q, want blocks joined", d.Slides[0].Text)
	}
}

func TestParse_YAML(t *testing.T) {
	seq := "- slide_number: 1\n  text: Hello\n- slide_number: 2\n  text: World\n"
	d, err := Parse([]byte(seq), FormatYAML, 0)
	if err != nil {
		t.Fatalf("Parse(seq) error = %v", err)
	}
	if len(d.Slides) != 2 || d.Slides[1].Text != "World" {
		t.Fatalf("Slides = %+v", d.Slides)
	}

	obj := "title: Deck\nslides:\n  - text: Only\n"
	d, err = Parse([]byte(obj), FormatYAML, 0)
	if err != nil {
		t.Fatalf("Parse(obj) error = %v", err)
	}
	if d.Title != "Deck" || d.Slides[0].Number != 1 || d.Slides[0].Text != "Only" {
		t.Fatalf("deck = %+v", d)
	}
}

func TestParse_Markdown(t *testing.T) {
	src := "# Climate Basics\n\nWhy it matters.\n\n---\n\n- CO2 rising\n- Oceans warming\n\n---\n\nQ&A\n"
	d, err := Parse([]byte(src), FormatMarkdown, 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Title != "Climate Basics" {
		t.Errorf("Title = %q, want Climate Basics", d.Title)
	}
	if len(d.Slides) != 3 {
		t.Fatalf("len(Slides) = %d, want 3: %+v", len(d.Slides), d.Slides)
	}
	if d.Slides[0].Text != "Climate Basics\nWhy it matters." {
		t.Errorf("Slides[0].Text = %q", d.Slides[0].Text)
	}
	if d.Slides[1].Text != "- CO2 rising\n- Oceans warming" {
		t.Errorf("Slides[1].Text = %q", d.Slides[1].Text)
	}
	if d.Slides[2].Number != 3 || d.Slides[2].Text != "Q&A" {
		t.Errorf("Slides[2] = %+v", d.Slides[2])
	}
}

func TestParse_MarkdownEmptySlideKept(t *testing.T) {
	src := "One\n\n---\n\n---\n\nThree\n"
	d, err := Parse([]byte(src), FormatMarkdown, 0)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(d.Slides) != 3 {
		t.Fatalf("len(Slides) = %d, want 3", len(d.Slides))
	}
	if d.Slides[1].Text != "" {
		t.Errorf("Slides[1].Text = %q, want empty", d.Slides[1].Text)
	}
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		max  int
		code errors.ErrorCode
	}{
		{"duplicate", `[{"slide_number":1,"text":"a"},{"slide_number":1,"text":"b"}]`, 0, errors.ErrInvalidRequest},
		{"negative", `[{"slide_number":-2,"text":"a"}]`, 0, errors.ErrInvalidRequest},
		{"malformed", `[{"slide_number":`, 0, errors.ErrInvalidRequest},
		{"too large", `[{"text":"a"},{"text":"b"},{"text":"c"}]`, 2, errors.ErrDeckTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), FormatJSON, tt.max)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Parse() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "weekly-update.json")
	if err := os.WriteFile(path, []byte(`[{"text":"Hi"}]`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	d, err := Load(path, 10)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Title != "weekly-update" || d.Source != path {
		t.Errorf("Title = %q, Source = %q", d.Title, d.Source)
	}

	if _, err := Load(filepath.Join(dir, "missing.md"), 0); !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := Load(filepath.Join(dir, "deck.pptx"), 0); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Load(pptx) error = %v, want INVALID_REQUEST", err)
	}
}
