package ops

import (
	"database/sql"

	"github.com/hpungsan/lectern/internal/db"
	"github.com/hpungsan/lectern/internal/run"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Style          string // optional style key filter
	Limit          int    // default: 20, max: 100
	Offset         int    // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []run.Summary `json:"items"`
	Pagination Pagination    `json:"pagination"`
	Sort       string        `json:"sort"`
}

// List retrieves run summaries, newest first, with pagination.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	var filter db.ListFilter
	if style := run.NormalizeKey(input.Style); style != "" {
		filter.Style = &style
	}

	summaries, total, err := db.ListRuns(database, filter, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []run.Summary{}
	}

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(summaries) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}
