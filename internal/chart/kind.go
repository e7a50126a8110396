package chart

import (
	"fmt"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
)

// Kind names a chart family a renderer can draw.
type Kind string

const (
	KindWordCloud     Kind = "word-cloud"
	KindBar           Kind = "bar"
	KindHorizontalBar Kind = "horizontal-bar"
	KindArea          Kind = "area"
	KindLine          Kind = "line"
	KindPie           Kind = "pie"
	KindScatter       Kind = "scatter"
	KindHeatmap       Kind = "heatmap"
)

var kinds = []Kind{
	KindWordCloud,
	KindBar,
	KindHorizontalBar,
	KindArea,
	KindLine,
	KindPie,
	KindScatter,
	KindHeatmap,
}

// Kinds lists every supported kind in a fixed order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// ParseKind accepts a kind name, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownChart, s)
}

// DefaultLimit is the top-N cutoff used for k when nothing overrides it.
func DefaultLimit(k Kind) int {
	switch k {
	case KindWordCloud:
		return 100
	case KindPie:
		return 10
	default:
		return 20
	}
}
