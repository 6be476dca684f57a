// Package run defines a persisted narration pass and its derived views.
package run

// Run statuses.
const (
	StatusComplete  = "complete"
	StatusCancelled = "cancelled"
)

// Run is the stored result of one narration pass over a deck.
type Run struct {
	// ID is a ULID that uniquely identifies this run
	ID string

	Title string

	// Source is the deck path the slides were loaded from (nullable)
	Source *string

	Style   string
	Level   *string
	Backend string
	Model   string

	// Status is StatusComplete or StatusCancelled
	Status string

	Counts Counts

	// Slides in deck order
	Slides []Slide

	// CreatedAt is the Unix timestamp when the run was stored
	CreatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// Slide is one narrated slide within a run.
type Slide struct {
	Position    int    `json:"position"`
	SlideNumber int    `json:"slide_number"`
	Text        string `json:"text"`
	Narration   string `json:"narration"`
	Outcome     string `json:"outcome"`
	Attempts    int    `json:"attempts"`
	LastError   string `json:"last_error,omitempty"`
}

// Counts tallies slide outcomes for a run.
type Counts struct {
	Success     int `json:"success"`
	Fallback    int `json:"fallback"`
	Passthrough int `json:"passthrough"`
	Skipped     int `json:"skipped"`
}

// Total is the number of slides counted.
func (c Counts) Total() int {
	return c.Success + c.Fallback + c.Passthrough + c.Skipped
}
