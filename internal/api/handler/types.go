package handler

import (
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/chart"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/frequency"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/tracing"
)

// AnalyzeRequest is the body of POST /api/v1/analyze. Omitted bounds fall
// back to the observed minimum and maximum counts; an omitted chart skips
// chart shaping.
type AnalyzeRequest struct {
	URL     string `json:"url"`
	MinFreq *int   `json:"min_freq,omitempty"`
	MaxFreq *int   `json:"max_freq,omitempty"`
	Chart   string `json:"chart,omitempty"`
}

type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type SelectionResponse struct {
	Bounds
	Distinct int               `json:"distinct"`
	Top      []frequency.Entry `json:"top"`
	TopLines []string          `json:"top_lines"`
}

// ChartResponse carries either Payload or, for word clouds, Cloud. When the
// selection is empty NothingToRender is set and neither is present.
type ChartResponse struct {
	Kind            chart.Kind          `json:"kind"`
	Payload         *chart.Payload      `json:"payload,omitempty"`
	Cloud           chart.Cloud         `json:"cloud,omitempty"`
	NothingToRender bool                `json:"nothing_to_render"`
	Render          config.RenderConfig `json:"render"`
}

type AnalyzeResponse struct {
	AnalysisID string            `json:"analysis_id"`
	URL        string            `json:"url"`
	Encoding   string            `json:"encoding,omitempty"`
	Attempts   int               `json:"attempts"`
	Previews   pipeline.Previews `json:"previews"`
	Tokens     int               `json:"tokens"`
	Distinct   int               `json:"distinct"`
	Observed   *Bounds           `json:"observed,omitempty"`
	Selection  SelectionResponse `json:"selection"`
	Chart      *ChartResponse    `json:"chart,omitempty"`
	Timings    []tracing.Timing  `json:"timings"`
}

type ChartsResponse struct {
	Charts []chart.Adapter `json:"charts"`
}
