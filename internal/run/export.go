package run

// ExportSchemaVersion is bumped when ExportDocument changes shape.
const ExportSchemaVersion = "1"

// ExportDocument is the JSON export of a run.
type ExportDocument struct {
	LecternExport bool   `json:"_lectern_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`

	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Source    *string `json:"source"`
	Style     string  `json:"style"`
	Level     *string `json:"level"`
	Backend   string  `json:"backend"`
	Model     string  `json:"model"`
	Status    string  `json:"status"`
	Counts    Counts  `json:"counts"`
	Slides    []Slide `json:"slides"`
	CreatedAt int64   `json:"created_at"`
}

// ToExportDocument converts a Run for export.
func ToExportDocument(r *Run, exportedAt int64) *ExportDocument {
	slides := r.Slides
	if slides == nil {
		slides = []Slide{}
	}
	return &ExportDocument{
		LecternExport: true,
		SchemaVersion: ExportSchemaVersion,
		ExportedAt:    exportedAt,
		ID:            r.ID,
		Title:         r.Title,
		Source:        r.Source,
		Style:         r.Style,
		Level:         r.Level,
		Backend:       r.Backend,
		Model:         r.Model,
		Status:        r.Status,
		Counts:        r.Counts,
		Slides:        slides,
		CreatedAt:     r.CreatedAt,
	}
}
