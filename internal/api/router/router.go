// Package router wires the API routes and the middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/api/handler"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/metrics"
	pkgmw "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/ratelimit"
)

// Options carries the optional pieces of the chain. A nil Metrics or
// Limiter disables that middleware; a zero Timeout disables the deadline.
type Options struct {
	AllowOrigins []string
	Timeout      time.Duration
	Metrics      *metrics.Metrics
	Limiter      *ratelimit.Limiter
}

// New builds the service handler.
//
// Route table:
//
//	POST /api/v1/analyze   run one URL through the pipeline
//	GET  /api/v1/charts    chart kinds and their cutoffs
//	GET  /health/live      liveness
//	GET  /health/ready     readiness
//
// Middleware chain (outermost first):
//
//	RequestID → RealIP → RequestLogger → Recoverer → CORS → Metrics → routes
func New(h *handler.Handler, checker *health.Checker, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(pkgmw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(pkgmw.CORS(pkgmw.DefaultCORSConfig(opts.AllowOrigins)))
	if opts.Metrics != nil {
		r.Use(pkgmw.Metrics(opts.Metrics))
	}

	r.Get("/health/live", checker.LiveHandler())
	r.Get("/health/ready", checker.ReadyHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/charts", h.Charts)
		r.Group(func(r chi.Router) {
			r.Use(pkgmw.RateLimit(opts.Limiter))
			if opts.Timeout > 0 {
				r.Use(pkgmw.Timeout(opts.Timeout))
			}
			r.Post("/analyze", h.Analyze)
		})
	})
	return r
}
