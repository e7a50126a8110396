// Package events announces finished analyses on the event stream.
package events

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/frequency"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/kafka"
)

// topTerms is how many ranked entries an event carries.
const topTerms = 10

// AnalysisCompleted is the payload published after every successful run.
type AnalysisCompleted struct {
	AnalysisID  string            `json:"analysis_id"`
	URL         string            `json:"url"`
	Encoding    string            `json:"encoding,omitempty"`
	Attempts    int               `json:"attempts"`
	Tokens      int               `json:"tokens"`
	Distinct    int               `json:"distinct"`
	MinCount    int               `json:"min_count"`
	MaxCount    int               `json:"max_count"`
	Top         []frequency.Entry `json:"top"`
	CompletedAt time.Time         `json:"completed_at"`
}

// NewAnalysisCompleted summarises a.
func NewAnalysisCompleted(a *pipeline.Analysis, now time.Time) AnalysisCompleted {
	lo, hi, _ := a.Bounds()
	return AnalysisCompleted{
		AnalysisID:  a.ID,
		URL:         a.URL,
		Encoding:    a.Encoding,
		Attempts:    a.Attempts,
		Tokens:      a.Tokens,
		Distinct:    a.Frequencies.Len(),
		MinCount:    lo,
		MaxCount:    hi,
		Top:         ranker.TopN(a.Frequencies, topTerms),
		CompletedAt: now.UTC(),
	}
}

type publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Observer counts publications.
type Observer interface {
	ObservePublish(err error)
}

// Publisher implements pipeline.Notifier on top of a Kafka producer.
type Publisher struct {
	producer publisher
	observer Observer
	now      func() time.Time
}

func NewPublisher(p publisher, o Observer) *Publisher {
	return &Publisher{producer: p, observer: o, now: time.Now}
}

// AnalysisCompleted publishes the event keyed by analysis ID.
func (p *Publisher) AnalysisCompleted(ctx context.Context, a *pipeline.Analysis) error {
	err := p.producer.Publish(ctx, kafka.Event{
		Key:   a.ID,
		Value: NewAnalysisCompleted(a, p.now()),
	})
	if p.observer != nil {
		p.observer.ObservePublish(err)
	}
	return err
}

var _ pipeline.Notifier = (*Publisher)(nil)
