package ops

import (
	"database/sql"

	"github.com/hpungsan/lectern/internal/db"
	"github.com/hpungsan/lectern/internal/run"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
	IncludeScript  bool // render the Markdown presenter script
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	run.Summary
	Slides []run.Slide    `json:"slides"`
	Lint   run.LintResult `json:"lint"`
	Script string         `json:"script,omitempty"`
}

// Fetch retrieves a run with its slides and script checks.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	r, err := db.GetRun(database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	out := &FetchOutput{
		Summary: r.ToSummary(),
		Slides:  r.Slides,
		Lint:    run.Lint(r),
	}
	if out.Slides == nil {
		out.Slides = []run.Slide{}
	}
	if input.IncludeScript {
		out.Script = run.Script(r)
	}
	return out, nil
}
