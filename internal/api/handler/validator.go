package handler

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/chart"
	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
)

const maxURLLength = 2048

// ValidationError holds one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return apperrors.ErrInvalidInput }

// ValidateAnalyzeRequest trims req.URL and req.Chart in place and checks
// every field.
func ValidateAnalyzeRequest(req *AnalyzeRequest) error {
	errs := make(map[string]string)

	req.URL = strings.TrimSpace(req.URL)
	switch {
	case req.URL == "":
		errs["url"] = "url is required"
	case len(req.URL) > maxURLLength:
		errs["url"] = fmt.Sprintf("url must be at most %d characters", maxURLLength)
	default:
		u, err := url.Parse(req.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs["url"] = "url must be an absolute http or https URL"
		}
	}

	if req.MinFreq != nil && *req.MinFreq < 0 {
		errs["min_freq"] = "min_freq must not be negative"
	}
	if req.MaxFreq != nil && *req.MaxFreq < 0 {
		errs["max_freq"] = "max_freq must not be negative"
	}
	if req.MinFreq != nil && req.MaxFreq != nil && *req.MinFreq > *req.MaxFreq {
		errs["min_freq"] = "min_freq must not exceed max_freq"
	}

	req.Chart = strings.TrimSpace(req.Chart)
	if req.Chart != "" {
		if _, err := chart.ParseKind(req.Chart); err != nil {
			errs["chart"] = fmt.Sprintf("chart must be one of %s", kindList())
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func kindList() string {
	kinds := chart.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
