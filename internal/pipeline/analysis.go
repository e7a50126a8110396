package pipeline

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/chart"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/frequency"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/tracing"
)

// Previews are the intermediate texts shown for inspection, each cut to the
// configured preview length.
type Previews struct {
	Raw         string `json:"raw"`
	Markup      string `json:"markup_stripped"`
	Punctuation string `json:"punctuation_stripped"`
}

// Analysis is the result of one successful run. It is read-only; every
// selection derives new values from it.
type Analysis struct {
	ID          string
	URL         string
	Encoding    string
	Attempts    int
	Previews    Previews
	Tokens      int
	Frequencies *frequency.Map
	Timings     []tracing.Timing

	adapters chart.Adapters
	topLines int
}

// Bounds is the observed count range, the range a UI offers for selection.
func (a *Analysis) Bounds() (lo, hi int, ok bool) {
	return a.Frequencies.Bounds()
}

// Select narrows the frequencies to [lo, hi]. A range matching nothing is a
// valid, empty selection; lo > hi is ErrInvalidRange.
func (a *Analysis) Select(lo, hi int) (*Selection, error) {
	if err := frequency.ValidateRange(lo, hi); err != nil {
		return nil, err
	}
	filtered := a.Frequencies.Filter(lo, hi)
	return &Selection{
		Min:         lo,
		Max:         hi,
		Frequencies: filtered,
		Top:         ranker.TopN(filtered, a.topLines),
		adapters:    a.adapters,
	}, nil
}

// SelectAll selects the full observed range.
func (a *Analysis) SelectAll() (*Selection, error) {
	lo, hi, ok := a.Bounds()
	if !ok {
		lo, hi = 0, 0
	}
	return a.Select(lo, hi)
}

// Selection is an analysis narrowed to a frequency range.
type Selection struct {
	Min, Max    int
	Frequencies *frequency.Map
	Top         []frequency.Entry

	adapters chart.Adapters
}

// TopLines renders Top as "token: count" lines.
func (s *Selection) TopLines() []string {
	lines := make([]string, len(s.Top))
	for i, e := range s.Top {
		lines[i] = e.String()
	}
	return lines
}

// Chart shapes the selection for kind. An empty selection yields
// ErrNothingToRender.
func (s *Selection) Chart(kind chart.Kind) (chart.Payload, error) {
	p, err := s.adapters.For(kind).Shape(s.Frequencies)
	if err != nil {
		return chart.Payload{}, fmt.Errorf("selection [%d, %d]: %w", s.Min, s.Max, err)
	}
	return p, nil
}

// Cloud shapes the selection as a word-cloud term set.
func (s *Selection) Cloud() (chart.Cloud, error) {
	c, err := s.adapters.For(chart.KindWordCloud).Cloud(s.Frequencies)
	if err != nil {
		return nil, fmt.Errorf("selection [%d, %d]: %w", s.Min, s.Max, err)
	}
	return c, nil
}
