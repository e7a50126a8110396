// Package pipeline runs one URL through the whole analysis: fetch, strip
// markup, strip punctuation, segment and count. Each run is synchronous,
// bounded by a time budget, and shares nothing with other runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/chart"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/cleaner"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/fetcher"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/frequency"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/segmenter"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/tracing"
)

// Stage names used for spans and metrics.
const (
	StageFetch       = "fetch"
	StageMarkup      = "strip_markup"
	StagePunctuation = "strip_punctuation"
	StageSegment     = "segment"
	StageCount       = "count"
)

// Outcomes reported to the Observer.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// Fetcher retrieves the text of one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetcher.RawDocument, error)
}

// Observer receives stage timings and run outcomes.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
	ObserveAnalysis(outcome string, tokens, distinct int)
}

// Notifier is told about every successful analysis. Its errors are logged
// and never fail the run.
type Notifier interface {
	AnalysisCompleted(ctx context.Context, a *Analysis) error
}

type noopObserver struct{}

func (noopObserver) ObserveStage(string, time.Duration) {}
func (noopObserver) ObserveAnalysis(string, int, int)   {}

// Pipeline is safe for concurrent use as long as its Fetcher and Cutter are.
type Pipeline struct {
	fetcher  Fetcher
	cutter   segmenter.Cutter
	cfg      config.PipelineConfig
	adapters chart.Adapters
	observer Observer
	notifier Notifier
	logger   *slog.Logger
}

type Option func(*Pipeline)

func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithAdapters replaces the default chart cutoffs.
func WithAdapters(as chart.Adapters) Option {
	return func(p *Pipeline) {
		if as != nil {
			p.adapters = as
		}
	}
}

func New(f Fetcher, c segmenter.Cutter, cfg config.PipelineConfig, opts ...Option) *Pipeline {
	if cfg.TopLines <= 0 {
		cfg.TopLines = 20
	}
	adapters, _ := chart.NewAdapters(nil)
	p := &Pipeline{
		fetcher:  f,
		cutter:   c,
		cfg:      cfg,
		adapters: adapters,
		observer: noopObserver{},
		logger:   logger.WithComponent("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Adapters exposes the chart cutoffs in use.
func (p *Pipeline) Adapters() chart.Adapters { return p.adapters }

// Analyze runs url through every stage. A page that yields no text returns
// ErrEmptyContent and no later stage runs. The whole run is bounded by the
// configured budget; exceeding it returns an error wrapping ErrTimeout.
func (p *Pipeline) Analyze(ctx context.Context, url string) (*Analysis, error) {
	id := logger.AnalysisID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = logger.WithAnalysisID(ctx, id)
	}
	log := logger.FromContext(ctx).With("component", "pipeline", "url", url)

	ctx, root := tracing.Start(ctx, "analyze", id)
	defer func() {
		root.End()
		root.Log(log)
	}()

	var a *Analysis
	err := resilience.WithBudget(ctx, p.cfg.Budget, "analyze", func(ctx context.Context) error {
		var err error
		a, err = p.run(ctx, id, url)
		return err
	})
	if err != nil {
		outcome := outcomeOf(err)
		p.observer.ObserveAnalysis(outcome, 0, 0)
		log.Warn("analysis failed", "outcome", outcome, "error", err)
		return nil, err
	}
	a.Timings = root.Timings()
	p.observer.ObserveAnalysis(OutcomeOK, a.Tokens, a.Frequencies.Len())
	log.Info("analysis complete",
		"tokens", a.Tokens,
		"distinct", a.Frequencies.Len(),
		"duration_ms", root.Duration().Milliseconds(),
	)

	if p.notifier != nil {
		if err := p.notifier.AnalysisCompleted(ctx, a); err != nil {
			log.Error("notifying analysis completion failed", "error", err)
		}
	}
	return a, nil
}

func (p *Pipeline) run(ctx context.Context, id, url string) (*Analysis, error) {
	var doc fetcher.RawDocument
	err := p.stage(ctx, StageFetch, func(ctx context.Context) error {
		var err error
		doc, err = p.fetcher.Fetch(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc.Empty() {
		return nil, fmt.Errorf("%w: %s (%s, http status %d)", apperrors.ErrEmptyContent, url, doc.Status, doc.StatusCode)
	}

	a := &Analysis{
		ID:       id,
		URL:      url,
		Encoding: doc.Encoding,
		Attempts: doc.Attempts,
		adapters: p.adapters,
		topLines: p.cfg.TopLines,
	}
	if err := p.process(ctx, doc.Text, a); err != nil {
		return nil, err
	}
	return a, ctx.Err()
}

// process runs the CPU-bound stages. A panic in any of them becomes a
// single ErrInternal and no partial result is returned.
func (p *Pipeline) process(ctx context.Context, text string, a *Analysis) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("panic during text processing",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%w: processing %s: %v", apperrors.ErrInternal, a.URL, r)
		}
	}()

	var markupFree, cleaned string
	var tokens segmenter.TokenStream
	var freq *frequency.Map

	p.stage(ctx, StageMarkup, func(context.Context) error {
		markupFree = cleaner.StripMarkup(text)
		return nil
	})
	p.stage(ctx, StagePunctuation, func(context.Context) error {
		cleaned = cleaner.StripPunctuation(markupFree)
		return nil
	})
	p.stage(ctx, StageSegment, func(context.Context) error {
		tokens = segmenter.Segment(p.cutter, cleaned)
		return nil
	})
	p.stage(ctx, StageCount, func(context.Context) error {
		freq = frequency.Count(tokens)
		return nil
	})

	a.Previews = Previews{
		Raw:         Preview(text, p.cfg.PreviewLength),
		Markup:      Preview(markupFree, p.cfg.PreviewLength),
		Punctuation: Preview(cleaned, p.cfg.PreviewLength),
	}
	a.Tokens = len(tokens)
	a.Frequencies = freq
	return nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := tracing.StartChild(ctx, name)
	err := fn(ctx)
	if err != nil {
		span.SetAttr("error", err.Error())
	}
	p.observer.ObserveStage(name, span.End())
	return err
}

// Preview keeps the first n runes of s and appends "...".
func Preview(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) > n {
		i, count := 0, 0
		for i = range s {
			if count == n {
				break
			}
			count++
		}
		s = s[:i]
	}
	return s + "..."
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrFetchTimeout), errors.Is(err, apperrors.ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, apperrors.ErrEmptyContent):
		return OutcomeEmpty
	default:
		return OutcomeError
	}
}
