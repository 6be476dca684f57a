package db

import (
	"database/sql"
	"time"

	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/run"
)

// InsertRun stores a run and its slides in one transaction.
func InsertRun(db *sql.DB, r *run.Run) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	words := 0
	for _, s := range r.Slides {
		words += run.CountWords(s.Narration)
	}

	_, err = tx.Exec(`
		INSERT INTO runs (
			id, title, source, style, level, backend, model, status,
			success_count, fallback_count, passthrough_count, skipped_count,
			slide_count, word_count, created_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`,
		r.ID, r.Title, toNullString(r.Source), r.Style, toNullString(r.Level),
		r.Backend, r.Model, r.Status,
		r.Counts.Success, r.Counts.Fallback, r.Counts.Passthrough, r.Counts.Skipped,
		len(r.Slides), words, r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_slides (
			run_id, position, slide_number, text, narration, outcome, attempts, last_error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()

	for _, s := range r.Slides {
		var lastErr sql.NullString
		if s.LastError != "" {
			lastErr = sql.NullString{String: s.LastError, Valid: true}
		}
		if _, err := stmt.Exec(r.ID, s.Position, s.SlideNumber, s.Text, s.Narration, s.Outcome, s.Attempts, lastErr); err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

const runColumns = `
	id, title, source, style, level, backend, model, status,
	success_count, fallback_count, passthrough_count, skipped_count,
	slide_count, word_count, created_at, deleted_at
`

// GetRun retrieves a run and its slides by ULID.
// If includeDeleted is false, soft-deleted runs are excluded.
func GetRun(db *sql.DB, id string, includeDeleted bool) (*run.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	r, _, err := scanRun(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	rows, err := db.Query(`
		SELECT position, slide_number, text, narration, outcome, attempts, last_error
		FROM run_slides
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s       run.Slide
			lastErr sql.NullString
		)
		if err := rows.Scan(&s.Position, &s.SlideNumber, &s.Text, &s.Narration, &s.Outcome, &s.Attempts, &lastErr); err != nil {
			return nil, errors.NewInternal(err)
		}
		s.LastError = lastErr.String
		r.Slides = append(r.Slides, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// ListFilter narrows ListRuns. Nil fields match everything.
type ListFilter struct {
	Style *string // normalized style key
}

// ListRuns returns run summaries, newest first, plus the total matching count.
func ListRuns(db *sql.DB, filter ListFilter, limit, offset int, includeDeleted bool) ([]run.Summary, int, error) {
	where := " WHERE 1=1"
	var args []any
	if !includeDeleted {
		where += " AND deleted_at IS NULL"
	}
	if filter.Style != nil {
		where += " AND style = ?"
		args = append(args, *filter.Style)
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + runColumns + ` FROM runs` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []run.Summary
	for rows.Next() {
		r, stats, err := scanRun(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s := r.ToSummary()
		s.SlideCount = stats.slides
		s.Words = stats.words
		s.SpeakingSeconds = run.EstimateSpeakingSeconds(stats.words)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// SoftDeleteRun marks a run as deleted by setting deleted_at.
func SoftDeleteRun(db *sql.DB, id string) error {
	now := time.Now().Unix()

	result, err := db.Exec(`
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// PurgeDeleted permanently removes soft-deleted runs and their slides.
// If olderThanDays is set, only runs deleted before (now - N days) are removed.
func PurgeDeleted(db *sql.DB, olderThanDays *int) (int, error) {
	where := "deleted_at IS NOT NULL"
	var args []any
	if olderThanDays != nil {
		cutoff := time.Now().Add(-time.Duration(*olderThanDays) * 24 * time.Hour).Unix()
		where += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_slides WHERE run_id IN (SELECT id FROM runs WHERE `+where+`)`, args...); err != nil {
		return 0, errors.NewInternal(err)
	}
	result, err := tx.Exec(`DELETE FROM runs WHERE `+where, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

type runStats struct {
	slides int
	words  int
}

// scanRun scans a runs row (without slides).
func scanRun(row rowScanner) (*run.Run, runStats, error) {
	var (
		r         run.Run
		stats     runStats
		source    sql.NullString
		level     sql.NullString
		deletedAt sql.NullInt64
	)

	err := row.Scan(
		&r.ID, &r.Title, &source, &r.Style, &level, &r.Backend, &r.Model, &r.Status,
		&r.Counts.Success, &r.Counts.Fallback, &r.Counts.Passthrough, &r.Counts.Skipped,
		&stats.slides, &stats.words, &r.CreatedAt, &deletedAt,
	)
	if err != nil {
		return nil, stats, err
	}

	r.Source = fromNullString(source)
	r.Level = fromNullString(level)
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Int64
	}

	return &r, stats, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
