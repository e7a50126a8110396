// Package segmenter splits cleaned text into word tokens. The splitting
// itself is delegated to a Cutter; this package only normalises what the
// cutter yields into a flat stream without empty or whitespace tokens.
package segmenter

import (
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/config"
)

// TokenStream is an ordered sequence of non-empty, whitespace-free tokens.
type TokenStream []string

// Cutter is a word-segmentation capability.
type Cutter interface {
	Cut(text string) []string
}

// CutterFunc adapts a plain function to Cutter.
type CutterFunc func(text string) []string

func (f CutterFunc) Cut(text string) []string { return f(text) }

// Segment runs c over text and keeps the order it yields. Each yielded token
// is split again on whitespace and empty pieces are dropped, so the result
// is the same as joining the tokens with spaces and splitting on whitespace.
func Segment(c Cutter, text string) TokenStream {
	words := c.Cut(text)
	tokens := make(TokenStream, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, strings.Fields(w)...)
	}
	return tokens
}

// Fields is the trivial cutter: it splits on Unicode whitespace only. It
// cannot separate CJK words and exists for whitespace-delimited languages
// and for deterministic tests.
var Fields Cutter = CutterFunc(strings.Fields)

// New builds the cutter selected by cfg.Engine.
func New(cfg config.SegmenterConfig) (Cutter, error) {
	switch cfg.Engine {
	case "", "gse":
		return NewGSE(cfg)
	case "fields":
		return Fields, nil
	default:
		return nil, fmt.Errorf("unknown segmenter engine %q", cfg.Engine)
	}
}
