// Command wordfreqd starts the word-frequency analysis HTTP service.
//
// The service accepts POST /api/v1/analyze with an article URL, fetches and
// cleans the page, segments and counts its words, and answers with the
// ranked frequencies and the data for the requested chart. Prometheus
// metrics are served on a separate port, and completed analyses can be
// announced on a Kafka topic.
//
// Usage:
//
//	go run ./cmd/wordfreqd [-config configs/development.yaml]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/api/handler"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/api/router"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/chart"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/events"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/fetcher"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/internal/segmenter"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/ratelimit"
)

// requestSlack is added to the pipeline budget for the HTTP deadline so the
// pipeline reports its own timeout first.
const requestSlack = 5 * time.Second

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting wordfreqd", "port", cfg.Server.Port, "segmenter", cfg.Segmenter.Engine)

	if err := run(cfg); err != nil {
		slog.Error("wordfreqd stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("wordfreqd stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	cutter, err := segmenter.New(cfg.Segmenter)
	if err != nil {
		return fmt.Errorf("initialising segmenter: %w", err)
	}
	adapters, err := chart.NewAdapters(cfg.Charts.Limits)
	if err != nil {
		return err
	}

	checker := health.NewChecker(5 * time.Second)
	checker.Register("segmenter", func(context.Context) error {
		if len(segmenter.Segment(cutter, "词频分析 health")) == 0 {
			return errors.New("segmenter produced no tokens")
		}
		return nil
	})

	opts := []pipeline.Option{pipeline.WithObserver(m), pipeline.WithAdapters(adapters)}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer func() {
			if err := producer.Close(); err != nil {
				slog.Error("closing kafka producer", "error", err)
			}
		}()
		opts = append(opts, pipeline.WithNotifier(events.NewPublisher(producer, m)))
		checker.Register("kafka", func(ctx context.Context) error {
			return health.Degraded(kafka.Ping(ctx, cfg.Kafka.Brokers))
		})
		slog.Info("kafka producer initialized", "topic", cfg.Kafka.Topic)
	}

	f := fetcher.New(cfg.Fetcher, fetcher.WithObserver(m))
	p := pipeline.New(f, cutter, cfg.Pipeline, opts...)
	h := handler.New(p, adapters, cfg.Charts.Render)

	var limiter *ratelimit.Limiter
	if cfg.Server.RateLimit > 0 {
		limiter = ratelimit.New(cfg.Server.RateLimit, time.Minute)
	}
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.New(h, checker, router.Options{
			AllowOrigins: cfg.Server.AllowOrigins,
			Timeout:      cfg.Pipeline.Budget + requestSlack,
			Metrics:      m,
			Limiter:      limiter,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("wordfreqd listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, m)
		g.Go(metricsServer.ListenAndServe)
	}
	if limiter != nil {
		g.Go(func() error {
			limiter.Run(gctx, 5*time.Minute)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
