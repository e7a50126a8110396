// Package tracing records how long each stage of an analysis takes. Spans
// travel in the context, form a tree under one root per analysis, and are
// written to the structured log when the root ends.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type contextKey struct{}

// Span is one timed operation.
type Span struct {
	Name    string
	TraceID string

	mu       sync.Mutex
	start    time.Time
	duration time.Duration
	ended    bool
	children []*Span
	attrs    []any
}

// Timing is a finished span flattened for reporting.
type Timing struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"-"`
	Millis   float64       `json:"ms"`
}

// Start opens a root span for traceID and stores it in the returned context.
func Start(ctx context.Context, name, traceID string) (context.Context, *Span) {
	s := &Span{Name: name, TraceID: traceID, start: time.Now()}
	return context.WithValue(ctx, contextKey{}, s), s
}

// StartChild opens a span under the one in ctx. Without a parent it behaves
// like a root with no trace ID.
func StartChild(ctx context.Context, name string) (context.Context, *Span) {
	child := &Span{Name: name, start: time.Now()}
	if parent := FromContext(ctx); parent != nil {
		child.TraceID = parent.TraceID
		parent.mu.Lock()
		parent.children = append(parent.children, child)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, contextKey{}, child), child
}

// FromContext returns the current span, or nil.
func FromContext(ctx context.Context) *Span {
	s, _ := ctx.Value(contextKey{}).(*Span)
	return s
}

// End stops the clock and returns the elapsed time. Calling End again
// returns the first measurement.
func (s *Span) End() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ended {
		s.duration = time.Since(s.start)
		s.ended = true
	}
	return s.duration
}

// Duration is the elapsed time, or the running time if the span is open.
func (s *Span) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return s.duration
	}
	return time.Since(s.start)
}

// SetAttr attaches a key/value pair that is logged with the span.
func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	s.attrs = append(s.attrs, key, value)
	s.mu.Unlock()
}

// Timings flattens the finished descendants of s, depth first, in the order
// they were started.
func (s *Span) Timings() []Timing {
	var out []Timing
	s.walk(func(sp *Span, depth int) {
		if depth == 0 {
			return
		}
		sp.mu.Lock()
		ended, d := sp.ended, sp.duration
		sp.mu.Unlock()
		if ended {
			out = append(out, Timing{
				Stage:    sp.Name,
				Duration: d,
				Millis:   float64(d.Microseconds()) / 1000,
			})
		}
	})
	return out
}

// Log writes one record per span in the tree.
func (s *Span) Log(logger *slog.Logger) {
	s.walk(func(sp *Span, depth int) {
		sp.mu.Lock()
		attrs := append([]any{
			"trace_id", sp.TraceID,
			"span", sp.Name,
			"duration_ms", sp.duration.Milliseconds(),
			"depth", depth,
		}, sp.attrs...)
		sp.mu.Unlock()
		logger.Debug("span", attrs...)
	})
}

func (s *Span) walk(visit func(*Span, int)) {
	var rec func(*Span, int)
	rec = func(sp *Span, depth int) {
		visit(sp, depth)
		sp.mu.Lock()
		children := append([]*Span(nil), sp.children...)
		sp.mu.Unlock()
		for _, c := range children {
			rec(c, depth+1)
		}
	}
	rec(s, 0)
}
