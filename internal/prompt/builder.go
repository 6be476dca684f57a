// Package prompt builds the text sent to the generation backend for a slide.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hpungsan/lectern/internal/style"
)

const (
	// ContextSlides is how many prior narrations a body prompt may reference.
	ContextSlides = 2

	// BodyTailRunes bounds each body context excerpt (trailing runes).
	BodyTailRunes = 150

	// CloserHeadRunes bounds the closer's bridging excerpt (leading runes).
	CloserHeadRunes = 100

	// SignOff is the exact phrase the final slide must end with.
	SignOff = "Thank you for your attention, and I will see you next week."
)

// Kind is the structural template chosen for a slide.
type Kind int

const (
	KindBody Kind = iota
	KindOpener
	KindCloser
)

func (k Kind) String() string {
	switch k {
	case KindOpener:
		return "opener"
	case KindCloser:
		return "closer"
	default:
		return "body"
	}
}

// KindFor selects the template by position. Slide 1 is always the opener,
// even in a one-slide deck.
func KindFor(slideNumber, totalSlides int) Kind {
	switch {
	case slideNumber == 1:
		return KindOpener
	case slideNumber == totalSlides && totalSlides > 1:
		return KindCloser
	default:
		return KindBody
	}
}

// Input is everything the builder needs for one slide.
type Input struct {
	SlideText   string
	SlideNumber int
	TotalSlides int
	Style       style.Style
	// Level adds an enrichment block when non-nil.
	Level  *style.Level
	Window *Window
}

// Build returns the prompt for the slide described by in.
func Build(in Input) string {
	var p string
	switch KindFor(in.SlideNumber, in.TotalSlides) {
	case KindOpener:
		p = opener(in)
	case KindCloser:
		p = closer(in)
	default:
		p = body(in)
	}
	if in.Level != nil {
		p += "\n\n" + in.Level.Guidance()
	}
	return p
}

func opener(in Input) string {
	return fmt.Sprintf(
		"You are the presenter starting a %d-slide presentation.\n"+
			"This is the Title Slide: '%s'\n\n"+
			"INSTRUCTIONS:\n"+
			"1. Start with 'Good morning everyone' (or a similar warm welcome).\n"+
			"2. Introduce the topic clearly.\n"+
			"3. Give a brief 1-sentence hook about what we will cover.\n"+
			"Tone: %s",
		in.TotalSlides, in.SlideText, in.Style.PromptStyle,
	)
}

func closer(in Input) string {
	bridge := ""
	if last, ok := in.Window.Last(); ok {
		bridge = "Previous slide discussed: " + Head(last.Narration, CloserHeadRunes) + "..."
	}

	return fmt.Sprintf(
		"You are concluding a presentation. This is the Final Slide.\n"+
			"Context from previous slide: %s\n"+
			"Final Slide Content: %s\n\n"+
			"INSTRUCTIONS:\n"+
			"1. Briefly summarize the main takeaway.\n"+
			"2. Do NOT say 'Good morning' or introduce yourself.\n"+
			"3. End with this exact sign-off: '%s'\n"+
			"Tone: %s",
		bridge, in.SlideText, SignOff, in.Style.PromptStyle,
	)
}

func body(in Input) string {
	recent := in.Window.Tail(ContextSlides)
	lines := make([]string, 0, len(recent))
	for _, e := range recent {
		lines = append(lines, fmt.Sprintf("Slide %d ended with: ...%s", e.SlideNumber, Tail(e.Narration, BodyTailRunes)))
	}

	return fmt.Sprintf(
		"You are narrating slide %d of %d (Middle of presentation).\n\n"+
			"PREVIOUS CONTEXT (flow from this):\n%s\n\n"+
			"CURRENT SLIDE CONTENT:\n%s\n\n"+
			"STRICT INSTRUCTIONS:\n"+
			"1. Do NOT say 'Good morning', 'Hello', or 'Welcome' again.\n"+
			"2. Do NOT introduce yourself.\n"+
			"3. Use a transition phrase (e.g., 'Moving on...', 'Furthermore...', 'As we can see here...') to connect to the previous context.\n"+
			"4. Explain the current slide content naturally.\n"+
			"Tone: %s",
		in.SlideNumber, in.TotalSlides, strings.Join(lines, "\n"), in.SlideText, in.Style.PromptStyle,
	)
}

// Head returns at most n leading runes of s.
func Head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Tail returns at most n trailing runes of s.
func Tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
