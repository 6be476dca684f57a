package ops

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/db"
	"github.com/hpungsan/lectern/internal/deck"
	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/narrate"
	"github.com/hpungsan/lectern/internal/run"
)

// NarrateInput contains parameters for the Narrate operation.
// Exactly one of Path or Slides must be set.
type NarrateInput struct {
	Path   string       // deck file (.json, .yaml, .yml, .md)
	Slides []deck.Slide // inline deck
	Title  string       // optional, overrides the deck's own title
	Style  string       // optional, default: cfg.Style
	Level  string       // optional, default: cfg.Level
	DryRun bool         // narrate without storing the run

	// Progress receives a status line before each generated slide.
	Progress func(msg string) `json:"-"`
}

// NarrateOutput contains the result of the Narrate operation.
type NarrateOutput struct {
	ID      string         `json:"id,omitempty"`
	Stored  bool           `json:"stored"`
	Title   string         `json:"title"`
	Source  string         `json:"source,omitempty"`
	Style   string         `json:"style"`
	Level   string         `json:"level,omitempty"`
	Backend string         `json:"backend"`
	Model   string         `json:"model"`
	Status  string         `json:"status"`
	Counts  run.Counts     `json:"counts"`
	Slides  []run.Slide    `json:"slides"`
	Lint    run.LintResult `json:"lint"`
}

// Narrate runs one narration pass over a deck and stores the run.
//
// factory is called once, so the pass owns its backend. When ctx is
// cancelled mid-pass the partial run is still stored (status "cancelled")
// and a CANCELLED error carrying its run_id is returned.
func Narrate(ctx context.Context, database *sql.DB, cfg *config.Config, factory BackendFactory, input NarrateInput) (*NarrateOutput, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	d, err := loadDeck(cfg, input)
	if err != nil {
		return nil, err
	}

	if factory == nil {
		return nil, errors.NewBackendUnavailable("no generation backend configured")
	}
	backend, err := factory(ctx)
	if err != nil {
		return nil, err
	}

	log := slog.Default().With("deck", d.Title)
	gen, err := narrate.New(backend,
		narrate.WithPacing(cfg.PacingDelay()),
		narrate.WithRateLimitBackoff(cfg.RateLimitBackoff()),
		narrate.WithAbortOnAuthFailure(cfg.AbortOnAuthFailure),
		narrate.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	req := narrate.Request{
		Style:    firstNonEmpty(input.Style, cfg.Style),
		Level:    firstNonEmpty(input.Level, cfg.Level),
		Progress: input.Progress,
	}
	res, passErr := gen.Narrate(ctx, d.Slides, req)
	if res == nil {
		return nil, errors.NewInternal(passErr)
	}

	r := toRun(d, res, backend.Name(), backend.Model())
	out := &NarrateOutput{
		Title:   r.Title,
		Source:  d.Source,
		Style:   r.Style,
		Backend: r.Backend,
		Model:   r.Model,
		Status:  r.Status,
		Counts:  r.Counts,
		Slides:  r.Slides,
		Lint:    run.Lint(r),
	}
	if r.Level != nil {
		out.Level = *r.Level
	}

	if !input.DryRun {
		id, err := newRunID()
		if err != nil {
			return nil, err
		}
		r.ID = id
		r.CreatedAt = time.Now().Unix()
		if err := db.InsertRun(database, r); err != nil {
			return nil, err
		}
		out.ID = id
		out.Stored = true
		log.Info("run stored", "id", id, "status", r.Status)
	}

	if passErr != nil {
		cErr := errors.NewCancelled("narration")
		if out.Stored {
			cErr.Details["run_id"] = out.ID
		}
		return nil, cErr
	}
	return out, nil
}

// loadDeck resolves the input deck. Inline slides are copied, since a pass
// writes narrations into its slice.
func loadDeck(cfg *config.Config, input NarrateInput) (*deck.Deck, error) {
	path := strings.TrimSpace(input.Path)
	switch {
	case path != "" && input.Slides != nil:
		return nil, errors.NewInvalidRequest("specify either path or slides, not both")
	case path == "" && input.Slides == nil:
		return nil, errors.NewInvalidRequest("path or slides is required")
	}

	var d *deck.Deck
	if path != "" {
		loaded, err := deck.Load(path, cfg.MaxSlides)
		if err != nil {
			return nil, err
		}
		d = loaded
	} else {
		slides := make([]deck.Slide, len(input.Slides))
		copy(slides, input.Slides)
		if err := deck.Normalize(slides, cfg.MaxSlides); err != nil {
			return nil, err
		}
		d = &deck.Deck{Slides: slides}
	}

	if t := strings.TrimSpace(input.Title); t != "" {
		d.Title = t
	}
	return d, nil
}

// toRun converts a finished pass into a storable run.
func toRun(d *deck.Deck, res *narrate.Result, backend, model string) *run.Run {
	r := &run.Run{
		Title:   d.Title,
		Style:   res.Style.Key,
		Backend: backend,
		Model:   model,
		Status:  run.StatusComplete,
		Counts: run.Counts{
			Success:     res.Counts.Success,
			Fallback:    res.Counts.Fallback,
			Passthrough: res.Counts.Passthrough,
			Skipped:     res.Counts.Skipped,
		},
		Slides: make([]run.Slide, len(res.Slides)),
	}
	if d.Source != "" {
		src := d.Source
		r.Source = &src
	}
	if res.Level != nil {
		key := res.Level.Key
		r.Level = &key
	}
	if res.Cancelled {
		r.Status = run.StatusCancelled
	}

	for i, s := range res.Slides {
		o := res.Outcomes[i]
		narration := ""
		if s.Narration != nil {
			narration = *s.Narration
		}
		r.Slides[i] = run.Slide{
			Position:    i + 1,
			SlideNumber: s.Number,
			Text:        s.Text,
			Narration:   narration,
			Outcome:     string(o.Outcome),
			Attempts:    o.Attempts,
			LastError:   o.LastError,
		}
	}
	return r
}

// BatchItem is the result for one deck of a batch.
type BatchItem struct {
	Index int            `json:"index"`
	Path  string         `json:"path,omitempty"`
	Run   *NarrateOutput `json:"run,omitempty"`
	Error *ItemError     `json:"error,omitempty"`
}

// ItemError describes why one deck of a batch failed.
type ItemError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// BatchOutput contains the result of the NarrateBatch operation.
type BatchOutput struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// NarrateBatch narrates several decks concurrently, at most parallel at a
// time (parallel <= 0 uses cfg.MaxParallelDecks). Each deck gets its own
// backend and generator. A failing deck is reported in its item and does
// not stop the others; items keep input order.
func NarrateBatch(ctx context.Context, database *sql.DB, cfg *config.Config, factory BackendFactory, inputs []NarrateInput, parallel int) (*BatchOutput, error) {
	if len(inputs) == 0 {
		return nil, errors.NewInvalidRequest("at least one deck is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if parallel <= 0 {
		parallel = cfg.MaxParallelDecks
	}
	if parallel <= 0 {
		parallel = 1
	}

	items := make([]BatchItem, len(inputs))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, in := range inputs {
		g.Go(func() error {
			item := BatchItem{Index: i, Path: in.Path}
			out, err := Narrate(ctx, database, cfg, factory, in)
			if err != nil {
				item.Error = toItemError(err)
			} else {
				item.Run = out
			}
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	out := &BatchOutput{Items: items}
	for _, it := range items {
		if it.Error != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	return out, nil
}

// toItemError keeps internal causes out of the item.
func toItemError(err error) *ItemError {
	if lErr, ok := errors.As(err); ok {
		ie := &ItemError{Code: string(lErr.Code), Message: lErr.Message}
		if lErr.Code != errors.ErrInternal {
			ie.Details = lErr.Details
		}
		return ie
	}
	return &ItemError{Code: string(errors.ErrInternal), Message: "an internal error occurred"}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
