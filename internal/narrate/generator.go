// Package narrate generates context-aware narration for a deck of slides.
//
// A pass walks the slides once, in order. Each successful narration is
// appended to a context window that later prompts draw on, so slides are
// never narrated concurrently within one pass.
package narrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/lectern/internal/deck"
	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/llm"
	"github.com/hpungsan/lectern/internal/metrics"
	"github.com/hpungsan/lectern/internal/prompt"
	"github.com/hpungsan/lectern/internal/style"
)

const (
	// MaxAttempts is the generation budget per slide.
	MaxAttempts = 2

	// TrivialRunes: slides whose trimmed text is shorter are passed through.
	TrivialRunes = 5

	DefaultPacing           = 800 * time.Millisecond
	DefaultRateLimitBackoff = 5 * time.Second
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Generator runs narration passes against one backend.
// A Generator is not safe for concurrent passes.
type Generator struct {
	backend     llm.Backend
	pacing      time.Duration
	backoff     time.Duration
	sleep       Sleeper
	log         *slog.Logger
	abortOnAuth bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithPacing sets the wait after every generation attempt.
func WithPacing(d time.Duration) Option {
	return func(g *Generator) { g.pacing = d }
}

// WithRateLimitBackoff sets the wait after a rate-limited attempt.
func WithRateLimitBackoff(d time.Duration) Option {
	return func(g *Generator) { g.backoff = d }
}

// WithSleeper replaces the wait implementation.
func WithSleeper(s Sleeper) Option {
	return func(g *Generator) { g.sleep = s }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithAbortOnAuthFailure skips the rest of a pass after an authorization
// failure instead of trying again on the next slide.
func WithAbortOnAuthFailure(abort bool) Option {
	return func(g *Generator) { g.abortOnAuth = abort }
}

// New creates a Generator. A nil backend is a construction error.
func New(backend llm.Backend, opts ...Option) (*Generator, error) {
	if backend == nil {
		return nil, errors.NewBackendUnavailable("no generation backend configured")
	}
	g := &Generator{
		backend: backend,
		pacing:  DefaultPacing,
		backoff: DefaultRateLimitBackoff,
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	return g, nil
}

// Request selects the style and level for a pass.
type Request struct {
	Style string
	// Level is optional; empty means no enrichment guidance.
	Level string
	// Progress receives a status line before each generated slide.
	Progress func(msg string)
}

// Narrate writes a narration into every slide, in place.
//
// Per-slide backend failures never surface as errors: the slide falls back
// to its own text. The only error is ctx's, returned together with a fully
// populated result whose remaining slides are marked skipped.
func (g *Generator) Narrate(ctx context.Context, slides []deck.Slide, req Request) (*Result, error) {
	st := style.LookupStyle(req.Style)
	var lvl *style.Level
	if strings.TrimSpace(req.Level) != "" {
		l := style.LookupLevel(req.Level)
		lvl = &l
	}

	total := len(slides)
	res := &Result{
		Slides:   slides,
		Outcomes: make([]SlideOutcome, total),
		Style:    st,
		Level:    lvl,
	}

	g.log.Info("narration style", "style", st.Name, "backend", g.backend.Name(), "model", g.backend.Model(), "slides", total)

	window := &prompt.Window{}
	var (
		stopErr error
		aborted bool
	)

	for i := range slides {
		s := &slides[i]
		pos := i + 1
		res.Outcomes[i].SlideNumber = s.Number

		if stopErr == nil {
			stopErr = ctx.Err()
		}
		if stopErr != nil || aborted {
			g.resolve(res, i, s.Text, OutcomeSkipped)
			continue
		}

		trimmed := strings.TrimSpace(s.Text)
		if utf8.RuneCountInString(trimmed) < TrivialRunes {
			g.resolve(res, i, s.Text, OutcomePassthrough)
			continue
		}

		if req.Progress != nil {
			req.Progress(fmt.Sprintf("Generating narration %d/%d (with context)", pos, total))
		}

		p := prompt.Build(prompt.Input{
			SlideText:   trimmed,
			SlideNumber: pos,
			TotalSlides: total,
			Style:       st,
			Level:       lvl,
			Window:      window,
		})

		att := g.attempt(ctx, pos, total, p, st.Temperature)
		res.Outcomes[i].Attempts = att.attempts
		if att.lastErr != nil {
			res.Outcomes[i].LastError = att.lastErr.Error()
		}

		if att.narration != "" {
			g.resolve(res, i, att.narration, OutcomeSuccess)
			window.Append(prompt.Entry{SlideNumber: pos, SourceText: trimmed, Narration: att.narration})
		} else {
			g.resolve(res, i, s.Text, OutcomeFallback)
		}

		if att.ctxErr != nil {
			stopErr = att.ctxErr
		}
		if att.authFailed && g.abortOnAuth {
			g.log.Error("aborting pass after authorization failure", "slide", pos, "remaining", total-pos)
			aborted = true
		}
	}

	res.Cancelled = stopErr != nil
	status := "complete"
	if res.Cancelled {
		status = "cancelled"
	}
	levelKey := ""
	if lvl != nil {
		levelKey = lvl.Key
	}
	metrics.PassesTotal.WithLabelValues(st.Key, levelKey, status).Inc()

	g.log.Info("narration complete",
		"slides", total,
		"success", res.Counts.Success,
		"fallback", res.Counts.Fallback,
		"passthrough", res.Counts.Passthrough,
		"skipped", res.Counts.Skipped,
	)

	if stopErr != nil {
		return res, stopErr
	}
	return res, nil
}

func (g *Generator) resolve(res *Result, i int, narration string, o Outcome) {
	n := narration
	res.Slides[i].Narration = &n
	res.Outcomes[i].Outcome = o
	res.Counts.add(o)
	metrics.SlideOutcomes.WithLabelValues(string(o)).Inc()
}

type attemptResult struct {
	narration  string // trimmed; empty on fallback
	attempts   int
	authFailed bool
	lastErr    error
	ctxErr     error // set when a wait was interrupted
}

// attempt runs the retry loop for one slide.
func (g *Generator) attempt(ctx context.Context, pos, total int, p string, temperature float64) attemptResult {
	var r attemptResult
	backend := g.backend.Name()

	for a := 1; a <= MaxAttempts; a++ {
		r.attempts = a
		final := a == MaxAttempts

		start := time.Now()
		out, err := g.backend.Generate(ctx, p, temperature)
		metrics.GenerationDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())

		stop := false
		switch {
		case err == nil && strings.TrimSpace(out) != "":
			r.narration = strings.TrimSpace(out)
			metrics.GenerationAttempts.WithLabelValues(backend, "success").Inc()
			g.log.Info("slide narrated", "slide", pos, "total", total, "attempt", a)
			stop = true

		case err == nil:
			metrics.GenerationAttempts.WithLabelValues(backend, "blank").Inc()
			g.log.Warn("empty response", "slide", pos, "attempt", a)

		default:
			r.lastErr = err
			kind := Classify(err)
			metrics.GenerationAttempts.WithLabelValues(backend, kind.String()).Inc()

			switch kind {
			case KindAuth:
				g.log.Error("API key error", "slide", pos, "error", err)
				r.authFailed = true
				stop = true
			case KindRateLimit:
				g.log.Warn("rate limit hit, waiting", "slide", pos, "attempt", a, "backoff", g.backoff)
				if !final {
					if werr := g.sleep(ctx, g.backoff); werr != nil {
						r.ctxErr = werr
						return r
					}
				}
			default:
				g.log.Warn("attempt failed", "slide", pos, "attempt", a, "error", err)
			}
		}

		if werr := g.sleep(ctx, g.pacing); werr != nil {
			r.ctxErr = werr
			return r
		}
		if stop {
			return r
		}
	}
	return r
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
