package narrate

import (
	"github.com/hpungsan/lectern/internal/deck"
	"github.com/hpungsan/lectern/internal/style"
)

// Outcome is the terminal state of one slide in a pass.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeFallback    Outcome = "fallback"
	OutcomePassthrough Outcome = "passthrough"
	// OutcomeSkipped marks slides never attempted because the pass was
	// cancelled or aborted after an authorization failure.
	OutcomeSkipped Outcome = "skipped"
)

// SlideOutcome records how one slide was resolved.
type SlideOutcome struct {
	SlideNumber int     `json:"slide_number"`
	Outcome     Outcome `json:"outcome"`
	Attempts    int     `json:"attempts"`
	// LastError is the final backend error for fallback slides, if any.
	LastError string `json:"last_error,omitempty"`
}

// Counts tallies outcomes.
type Counts struct {
	Success     int `json:"success"`
	Fallback    int `json:"fallback"`
	Passthrough int `json:"passthrough"`
	Skipped     int `json:"skipped"`
}

// Result is the outcome of a narration pass. Slides is the caller's slice,
// mutated in place.
type Result struct {
	Slides   []deck.Slide   `json:"slides"`
	Outcomes []SlideOutcome `json:"outcomes"`
	Style    style.Style    `json:"style"`
	Level    *style.Level   `json:"level,omitempty"`
	Counts   Counts         `json:"counts"`
	// Cancelled is set when the pass stopped early on context cancellation.
	Cancelled bool `json:"cancelled,omitempty"`
}

func (c *Counts) add(o Outcome) {
	switch o {
	case OutcomeSuccess:
		c.Success++
	case OutcomeFallback:
		c.Fallback++
	case OutcomePassthrough:
		c.Passthrough++
	case OutcomeSkipped:
		c.Skipped++
	}
}
