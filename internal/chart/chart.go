// Package chart shapes a frequency map into the data a chart renderer
// consumes: two index-aligned sequences of labels and values, or for word
// clouds a capped token → count mapping. Nothing here draws anything.
package chart

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/frequency"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
)

// Payload is the contract handed to a renderer. Labels[i] has count
// Values[i]; both slices always have the same length.
type Payload struct {
	Kind   Kind     `json:"kind"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

func (p Payload) Len() int { return len(p.Labels) }

// Cloud is the weighted term set a word-cloud renderer consumes.
type Cloud map[string]int

// Adapter shapes maps for one chart kind.
type Adapter struct {
	Kind  Kind `json:"kind"`
	Limit int  `json:"limit"`
}

// Shape ranks m and keeps the top Limit entries. An empty map yields
// ErrNothingToRender so no renderer is ever handed empty sequences.
func (a Adapter) Shape(m *frequency.Map) (Payload, error) {
	if m.Len() == 0 {
		return Payload{}, fmt.Errorf("%s chart: %w", a.Kind, apperrors.ErrNothingToRender)
	}
	top := ranker.TopN(m, a.Limit)
	p := Payload{
		Kind:   a.Kind,
		Labels: make([]string, len(top)),
		Values: make([]int, len(top)),
	}
	for i, e := range top {
		p.Labels[i] = e.Token
		p.Values[i] = e.Count
	}
	return p, nil
}

// Cloud is Shape flattened into a mapping.
func (a Adapter) Cloud(m *frequency.Map) (Cloud, error) {
	p, err := a.Shape(m)
	if err != nil {
		return nil, err
	}
	c := make(Cloud, p.Len())
	for i, label := range p.Labels {
		c[label] = p.Values[i]
	}
	return c, nil
}

// Adapters holds one adapter per kind.
type Adapters map[Kind]Adapter

// NewAdapters builds adapters with the default cutoffs, replaced by any
// entry in limits. Limits must name known kinds and be at least 1.
func NewAdapters(limits map[string]int) (Adapters, error) {
	as := make(Adapters, len(kinds))
	for _, k := range kinds {
		as[k] = Adapter{Kind: k, Limit: DefaultLimit(k)}
	}
	for name, limit := range limits {
		k, err := ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("chart limits: %w", err)
		}
		if limit < 1 {
			return nil, fmt.Errorf("chart limit for %s must be at least 1, got %d", k, limit)
		}
		as[k] = Adapter{Kind: k, Limit: limit}
	}
	return as, nil
}

// For returns the adapter for k, falling back to the default cutoff.
func (as Adapters) For(k Kind) Adapter {
	if a, ok := as[k]; ok {
		return a
	}
	return Adapter{Kind: k, Limit: DefaultLimit(k)}
}

// List returns the adapters in Kinds order.
func (as Adapters) List() []Adapter {
	out := make([]Adapter, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, as.For(k))
	}
	return out
}

var defaults, _ = NewAdapters(nil)

func WordCloud(m *frequency.Map) (Cloud, error)       { return defaults.For(KindWordCloud).Cloud(m) }
func Bar(m *frequency.Map) (Payload, error)           { return defaults.For(KindBar).Shape(m) }
func HorizontalBar(m *frequency.Map) (Payload, error) { return defaults.For(KindHorizontalBar).Shape(m) }
func Area(m *frequency.Map) (Payload, error)          { return defaults.For(KindArea).Shape(m) }
func Line(m *frequency.Map) (Payload, error)          { return defaults.For(KindLine).Shape(m) }
func Pie(m *frequency.Map) (Payload, error)           { return defaults.For(KindPie).Shape(m) }
func Scatter(m *frequency.Map) (Payload, error)       { return defaults.For(KindScatter).Shape(m) }
func Heatmap(m *frequency.Map) (Payload, error)       { return defaults.For(KindHeatmap).Shape(m) }
