package segmenter

import (
	"fmt"
	"strings"

	"github.com/go-ego/gse"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/logger"
)

// GSE segments mixed CJK and Latin text with a prefix dictionary and an
// optional HMM pass for words missing from the dictionary. The dictionary is
// read-only once loaded, so one GSE can serve concurrent callers.
type GSE struct {
	seg gse.Segmenter
	hmm bool
}

// NewGSE loads cfg.DictFiles, or the embedded default dictionary when none
// are configured.
func NewGSE(cfg config.SegmenterConfig) (*GSE, error) {
	g := &GSE{hmm: cfg.HMM}
	g.seg.SkipLog = true

	var err error
	if len(cfg.DictFiles) == 0 {
		err = g.seg.LoadDictEmbed()
	} else {
		err = g.seg.LoadDict(strings.Join(cfg.DictFiles, ","))
	}
	if err != nil {
		return nil, fmt.Errorf("loading segmenter dictionary: %w", err)
	}
	logger.WithComponent("segmenter").Info("dictionary loaded",
		"files", len(cfg.DictFiles),
		"hmm", cfg.HMM,
	)
	return g, nil
}

func (g *GSE) Cut(text string) []string {
	return g.seg.Cut(text, g.hmm)
}
