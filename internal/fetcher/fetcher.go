// Package fetcher retrieves one web page and extracts its visible article
// text. Timeouts are retried a bounded number of times with backoff; every
// other failure is reported as an empty document rather than an error.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/resilience"
)

// Attempt results reported to the Observer.
const (
	ResultOK      = "ok"
	ResultStatus  = "status"
	ResultTimeout = "timeout"
	ResultNetwork = "network"
)

// Observer is told about every HTTP attempt.
type Observer interface {
	ObserveFetchAttempt(result string)
}

type noopObserver struct{}

func (noopObserver) ObserveFetchAttempt(string) {}

// Fetcher performs single-page GETs.
type Fetcher struct {
	client   *http.Client
	cfg      config.FetcherConfig
	retry    resilience.RetryConfig
	observer Observer
	logger   *slog.Logger
}

type Option func(*Fetcher)

// WithHTTPClient replaces the default client. The client's own Timeout is
// left alone; per-attempt deadlines come from the request context.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

func WithObserver(o Observer) Option {
	return func(f *Fetcher) {
		if o != nil {
			f.observer = o
		}
	}
}

func New(cfg config.FetcherConfig, opts ...Option) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	f := &Fetcher{
		client: &http.Client{},
		cfg:    cfg,
		retry: resilience.RetryConfig{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialDelay:   cfg.Retry.InitialDelay,
			MaxDelay:       cfg.Retry.MaxDelay,
			Multiplier:     cfg.Retry.Multiplier,
			JitterFraction: cfg.Retry.Jitter,
			Retryable: func(err error) bool {
				return errors.Is(err, apperrors.ErrFetchTimeout)
			},
		},
		observer: noopObserver{},
		logger:   logger.WithComponent("fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves url and returns its extracted text.
//
// A non-200 status, a non-timeout network error or a page without text all
// yield an empty document and a nil error. Timeouts are retried; once the
// attempts are exhausted Fetch returns an empty document and an error
// wrapping ErrRetriesExhausted and ErrFetchTimeout. Cancellation of ctx is
// returned as an error as well.
func (f *Fetcher) Fetch(ctx context.Context, url string) (RawDocument, error) {
	log := logger.FromContext(ctx).With("component", "fetcher", "url", url)
	var doc RawDocument
	attempts, err := resilience.Retry(ctx, "fetch", f.retry, func(attempt int) error {
		var err error
		doc, err = f.attempt(ctx, url)
		return err
	})
	doc.URL = url
	doc.Attempts = attempts
	if err != nil {
		log.Warn("fetch gave up", "attempts", attempts, "error", err)
		return RawDocument{URL: url, Status: StatusFailed, Attempts: attempts}, err
	}
	log.Info("fetch finished",
		"status", doc.Status.String(),
		"http_status", doc.StatusCode,
		"attempts", attempts,
		"encoding", doc.Encoding,
		"text_len", len(doc.Text),
	)
	return doc, nil
}

// attempt makes one request under its own deadline. Only timeouts and
// cancellation come back as errors.
func (f *Fetcher) attempt(ctx context.Context, url string) (RawDocument, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		f.observer.ObserveFetchAttempt(ResultNetwork)
		f.logger.Warn("building request failed", "url", url, "error", err)
		return RawDocument{Status: StatusFailed}, nil
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return f.classify(ctx, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.observer.ObserveFetchAttempt(ResultStatus)
		f.logger.Warn("unexpected status", "url", url, "status", resp.StatusCode)
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return RawDocument{Status: StatusFailed, StatusCode: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes()))
	if err != nil {
		doc, err := f.classify(ctx, url, err)
		doc.StatusCode = resp.StatusCode
		return doc, err
	}
	f.observer.ObserveFetchAttempt(ResultOK)

	page, encoding, err := decode(body, resp.Header.Get("Content-Type"))
	if err != nil {
		f.logger.Warn("decoding failed", "url", url, "error", err)
		return RawDocument{Status: StatusFailed, StatusCode: resp.StatusCode, Encoding: encoding}, nil
	}
	text, err := extractText(page)
	if err != nil {
		f.logger.Warn("extraction failed", "url", url, "error", err)
		return RawDocument{Status: StatusFailed, StatusCode: resp.StatusCode, Encoding: encoding}, nil
	}
	if strings.TrimSpace(text) == "" {
		return RawDocument{Status: StatusEmpty, StatusCode: resp.StatusCode, Encoding: encoding}, nil
	}
	return RawDocument{
		Text:       text,
		Status:     StatusSuccess,
		StatusCode: resp.StatusCode,
		Encoding:   encoding,
	}, nil
}

// classify turns a transport error into either a retryable timeout, a
// cancellation error, or an empty failed document.
func (f *Fetcher) classify(ctx context.Context, url string, err error) (RawDocument, error) {
	if ctx.Err() != nil {
		f.observer.ObserveFetchAttempt(ResultNetwork)
		return RawDocument{Status: StatusFailed}, fmt.Errorf("fetching %s: %w", url, ctx.Err())
	}
	if isTimeout(err) {
		f.observer.ObserveFetchAttempt(ResultTimeout)
		return RawDocument{Status: StatusFailed}, fmt.Errorf("%w after %v: %w", apperrors.ErrFetchTimeout, f.cfg.Timeout, err)
	}
	f.observer.ObserveFetchAttempt(ResultNetwork)
	f.logger.Warn("request failed", "url", url, "error", err)
	return RawDocument{Status: StatusFailed}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (f *Fetcher) maxBodyBytes() int64 {
	if f.cfg.MaxBodyBytes > 0 {
		return f.cfg.MaxBodyBytes
	}
	return 10 << 20
}

