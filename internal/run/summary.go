package run

// Summary is a run's metadata without slide content.
// Used for browse operations (list, web index).
type Summary struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Source  *string `json:"source,omitempty"`
	Style   string  `json:"style"`
	Level   *string `json:"level,omitempty"`
	Backend string  `json:"backend"`
	Model   string  `json:"model"`
	Status  string  `json:"status"`
	Counts  Counts  `json:"counts"`

	SlideCount int `json:"slide_count"`

	// Words is the narration word count, SpeakingSeconds its estimated read-aloud time
	Words           int `json:"words"`
	SpeakingSeconds int `json:"speaking_seconds"`

	CreatedAt int64  `json:"created_at"`
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ToSummary converts a Run to a Summary by stripping slide content.
func (r *Run) ToSummary() Summary {
	words := 0
	for _, s := range r.Slides {
		words += CountWords(s.Narration)
	}
	return Summary{
		ID:              r.ID,
		Title:           r.Title,
		Source:          r.Source,
		Style:           r.Style,
		Level:           r.Level,
		Backend:         r.Backend,
		Model:           r.Model,
		Status:          r.Status,
		Counts:          r.Counts,
		SlideCount:      len(r.Slides),
		Words:           words,
		SpeakingSeconds: EstimateSpeakingSeconds(words),
		CreatedAt:       r.CreatedAt,
		DeletedAt:       r.DeletedAt,
	}
}
