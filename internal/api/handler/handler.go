// Package handler serves the analysis API: one endpoint runs a URL through
// the pipeline and shapes the requested selection and chart, another lists
// the chart kinds on offer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/chart"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/logger"
)

const maxRequestBytes = 64 << 10

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*pipeline.Analysis, error)
}

type Handler struct {
	analyzer Analyzer
	adapters chart.Adapters
	render   config.RenderConfig
	logger   *slog.Logger
}

func New(a Analyzer, adapters chart.Adapters, render config.RenderConfig) *Handler {
	return &Handler{
		analyzer: a,
		adapters: adapters,
		render:   render,
		logger:   logger.WithComponent("api-handler"),
	}
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.fail(w, logger.FromContext(r.Context()), "request rejected", decodeError(err))
		return
	}
	if err := ValidateAnalyzeRequest(&req); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			h.writeJSON(w, apperrors.HTTPStatusCode(err), map[string]any{
				"error":  "validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		h.fail(w, logger.FromContext(r.Context()), "request rejected", err)
		return
	}

	id := uuid.NewString()
	ctx := logger.WithAnalysisID(r.Context(), id)
	log := logger.FromContext(ctx)
	w.Header().Set("X-Analysis-ID", id)

	analysis, err := h.analyzer.Analyze(ctx, req.URL)
	if err != nil {
		h.fail(w, log, "analysis failed", err)
		return
	}

	resp, err := h.buildResponse(analysis, &req)
	if err != nil {
		h.fail(w, log, "selection failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) buildResponse(a *pipeline.Analysis, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	resp := &AnalyzeResponse{
		AnalysisID: a.ID,
		URL:        a.URL,
		Encoding:   a.Encoding,
		Attempts:   a.Attempts,
		Previews:   a.Previews,
		Tokens:     a.Tokens,
		Distinct:   a.Frequencies.Len(),
		Timings:    a.Timings,
	}

	lo, hi, ok := a.Bounds()
	if ok {
		resp.Observed = &Bounds{Min: lo, Max: hi}
	}
	// A single bound widens the omitted one instead of inverting the range.
	switch {
	case req.MinFreq != nil && req.MaxFreq != nil:
		lo, hi = *req.MinFreq, *req.MaxFreq
	case req.MinFreq != nil:
		lo = *req.MinFreq
		hi = max(hi, lo)
	case req.MaxFreq != nil:
		hi = *req.MaxFreq
		lo = min(lo, hi)
	}
	sel, err := a.Select(lo, hi)
	if err != nil {
		return nil, err
	}
	resp.Selection = SelectionResponse{
		Bounds:   Bounds{Min: sel.Min, Max: sel.Max},
		Distinct: sel.Frequencies.Len(),
		Top:      sel.Top,
		TopLines: sel.TopLines(),
	}

	if req.Chart == "" {
		return resp, nil
	}
	kind, err := chart.ParseKind(req.Chart)
	if err != nil {
		return nil, err
	}
	cr := &ChartResponse{Kind: kind, Render: h.render}
	if kind == chart.KindWordCloud {
		cr.Cloud, err = sel.Cloud()
	} else {
		var p chart.Payload
		if p, err = sel.Chart(kind); err == nil {
			cr.Payload = &p
		}
	}
	switch {
	case errors.Is(err, apperrors.ErrNothingToRender):
		cr.NothingToRender = true
	case err != nil:
		return nil, err
	}
	resp.Chart = cr
	return resp, nil
}

// Charts lists every chart kind with its top-N cutoff.
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, ChartsResponse{Charts: h.adapters.List()})
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.Newf(apperrors.ErrInvalidInput, http.StatusRequestEntityTooLarge,
			"request body must be at most %d bytes", tooLarge.Limit)
	}
	return apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid JSON body")
}

func (h *Handler) fail(w http.ResponseWriter, log *slog.Logger, msg string, err error) {
	status := apperrors.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error(msg, "error", err, "status_code", status)
	} else {
		log.Warn(msg, "error", err, "status_code", status)
	}
	h.writeError(w, status, apperrors.UserMessage(err))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
