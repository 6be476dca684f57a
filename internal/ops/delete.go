package ops

import (
	"database/sql"

	"github.com/hpungsan/lectern/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete soft-deletes a run. Purge removes it for good.
func Delete(database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	if err := db.SoftDeleteRun(database, id); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      id,
	}, nil
}
