package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/chart"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/fetcher"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/segmenter"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
)

type stubFetcher struct {
	text string
	err  error
}

func (s stubFetcher) Fetch(_ context.Context, url string) (fetcher.RawDocument, error) {
	if s.err != nil || s.text == "" {
		return fetcher.RawDocument{URL: url, Status: fetcher.StatusFailed, StatusCode: 404}, s.err
	}
	return fetcher.RawDocument{URL: url, Text: s.text, Status: fetcher.StatusSuccess, Attempts: 1, Encoding: "utf-8"}, nil
}

const article = "apple apple apple apple apple banana banana banana cherry cherry cherry date"

func newHandler(f stubFetcher) *Handler {
	p := pipeline.New(f, segmenter.Fields, config.PipelineConfig{Budget: time.Second, PreviewLength: 20, TopLines: 20})
	return New(p, p.Adapters(), config.RenderConfig{FontPath: "/fonts/SimHei.ttf", Width: 800, Height: 600})
}

func post(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestAnalyzeDefaultsToObservedBounds(t *testing.T) {
	rec := post(t, newHandler(stubFetcher{text: article}), `{"url":"https://example.com/post"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Analysis-ID"))

	resp := decode[AnalyzeResponse](t, rec)
	require.Equal(t, rec.Header().Get("X-Analysis-ID"), resp.AnalysisID)
	require.Equal(t, 12, resp.Tokens)
	require.Equal(t, 4, resp.Distinct)
	require.Equal(t, &Bounds{Min: 1, Max: 5}, resp.Observed)
	require.Equal(t, Bounds{Min: 1, Max: 5}, resp.Selection.Bounds)
	require.Equal(t, []string{"apple: 5", "banana: 3", "cherry: 3", "date: 1"}, resp.Selection.TopLines)
	require.Equal(t, "apple apple apple ap...", resp.Previews.Raw)
	require.Nil(t, resp.Chart)
	require.Len(t, resp.Timings, 5)
}

func TestAnalyzeWithRangeAndChart(t *testing.T) {
	rec := post(t, newHandler(stubFetcher{text: article}),
		`{"url":"https://example.com/post","min_freq":2,"max_freq":5,"chart":"pie"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[AnalyzeResponse](t, rec)
	require.Equal(t, 3, resp.Selection.Distinct)
	require.NotNil(t, resp.Chart)
	require.Equal(t, chart.KindPie, resp.Chart.Kind)
	require.False(t, resp.Chart.NothingToRender)
	require.Equal(t, []string{"apple", "banana", "cherry"}, resp.Chart.Payload.Labels)
	require.Equal(t, []int{5, 3, 3}, resp.Chart.Payload.Values)
	require.Equal(t, "/fonts/SimHei.ttf", resp.Chart.Render.FontPath)
}

func TestAnalyzeWordCloud(t *testing.T) {
	rec := post(t, newHandler(stubFetcher{text: article}), `{"url":"https://example.com/post","chart":"word-cloud"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[AnalyzeResponse](t, rec)
	require.Nil(t, resp.Chart.Payload)
	require.Equal(t, chart.Cloud{"apple": 5, "banana": 3, "cherry": 3, "date": 1}, resp.Chart.Cloud)
}

func TestAnalyzeDegenerateRangeIsNothingToRender(t *testing.T) {
	rec := post(t, newHandler(stubFetcher{text: article}),
		`{"url":"https://example.com/post","min_freq":2,"max_freq":2,"chart":"bar"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[AnalyzeResponse](t, rec)
	require.Zero(t, resp.Selection.Distinct)
	require.Empty(t, resp.Selection.TopLines)
	require.True(t, resp.Chart.NothingToRender)
	require.Nil(t, resp.Chart.Payload)
}

func TestAnalyzeOneSidedBoundBeyondObserved(t *testing.T) {
	h := newHandler(stubFetcher{text: article})

	rec := post(t, h, `{"url":"https://example.com/post","min_freq":9,"chart":"bar"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[AnalyzeResponse](t, rec)
	require.Equal(t, Bounds{Min: 9, Max: 9}, resp.Selection.Bounds)
	require.Zero(t, resp.Selection.Distinct)
	require.True(t, resp.Chart.NothingToRender)

	rec = post(t, h, `{"url":"https://example.com/post","max_freq":0,"chart":"bar"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[AnalyzeResponse](t, rec)
	require.Equal(t, Bounds{Min: 0, Max: 0}, resp.Selection.Bounds)
	require.True(t, resp.Chart.NothingToRender)

	rec = post(t, h, `{"url":"https://example.com/post","min_freq":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[AnalyzeResponse](t, rec)
	require.Equal(t, Bounds{Min: 3, Max: 5}, resp.Selection.Bounds)
	require.Equal(t, 3, resp.Selection.Distinct)
}

func TestAnalyzeEmptyContent(t *testing.T) {
	rec := post(t, newHandler(stubFetcher{}), `{"url":"https://example.com/missing"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decode[map[string]string](t, rec)["error"], "no content")
}

func TestAnalyzeFetchTimeout(t *testing.T) {
	err := fmt.Errorf("%w: 3 attempts for fetch: %w", apperrors.ErrRetriesExhausted, apperrors.ErrFetchTimeout)
	rec := post(t, newHandler(stubFetcher{err: err}), `{"url":"https://example.com/slow"}`)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	require.Equal(t, "the page did not respond in time", decode[map[string]string](t, rec)["error"])
}

func TestAnalyzeRejectsBadRequests(t *testing.T) {
	h := newHandler(stubFetcher{text: article})
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing url", `{}`, "url"},
		{"relative url", `{"url":"/just/a/path"}`, "url"},
		{"ftp url", `{"url":"ftp://example.com/file"}`, "url"},
		{"inverted range", `{"url":"https://e.com","min_freq":5,"max_freq":2}`, "min_freq"},
		{"negative max", `{"url":"https://e.com","max_freq":-1}`, "max_freq"},
		{"unknown chart", `{"url":"https://e.com","chart":"radar"}`, "chart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[map[string]any](t, rec)
			fields, ok := resp["fields"].(map[string]any)
			require.True(t, ok, "response: %v", resp)
			require.Contains(t, fields, tt.field)
		})
	}
}

func TestAnalyzeRejectsMalformedJSON(t *testing.T) {
	h := newHandler(stubFetcher{text: article})
	for _, body := range []string{`{"url":`, `{"url":"https://e.com","extra":1}`} {
		rec := post(t, h, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid JSON body", decode[map[string]string](t, rec)["error"])
	}

	big := bytes.Repeat([]byte("a"), maxRequestBytes+1)
	rec := post(t, h, `{"url":"`+string(big)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, decode[map[string]string](t, rec)["error"], "at most")
}

func TestCharts(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(stubFetcher{}).Charts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ChartsResponse](t, rec)
	require.Len(t, resp.Charts, len(chart.Kinds()))
	limits := map[chart.Kind]int{}
	for _, a := range resp.Charts {
		limits[a.Kind] = a.Limit
	}
	require.Equal(t, 100, limits[chart.KindWordCloud])
	require.Equal(t, 10, limits[chart.KindPie])
	require.Equal(t, 20, limits[chart.KindHeatmap])
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"url": "required", "chart": "unknown"}}
	require.Equal(t, "chart: unknown; url: required", err.Error())
}

func TestValidationErrorIsInvalidInput(t *testing.T) {
	err := ValidateAnalyzeRequest(&AnalyzeRequest{URL: "not a url"})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	require.Equal(t, http.StatusBadRequest, apperrors.HTTPStatusCode(err))
}
