// Package config loads and validates service configuration from YAML files,
// an optional .env file and WF_* environment-variable overrides. Every
// subsystem (Server, Fetcher, Segmenter, Pipeline, Charts, Kafka, Logging,
// Metrics) gets a typed struct with defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Charts    ChartsConfig    `yaml:"charts"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	AllowOrigins    []string      `yaml:"allowOrigins"`
	// RateLimit caps analyze requests per client per minute. 0 disables it.
	RateLimit int `yaml:"rateLimit"`
}

// FetcherConfig controls the page fetcher: the per-attempt timeout, the
// identification header and the bounded retry policy applied on timeouts.
type FetcherConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"userAgent"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
	Retry        RetryConfig   `yaml:"retry"`
}

// RetryConfig bounds the number of fetch attempts made after timeouts.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"maxAttempts"`
	InitialDelay time.Duration `yaml:"initialDelay"`
	MaxDelay     time.Duration `yaml:"maxDelay"`
	Multiplier   float64       `yaml:"multiplier"`
	Jitter       float64       `yaml:"jitter"`
}

// SegmenterConfig selects the segmentation engine ("gse" or "fields") and
// the dictionaries gse loads. An empty DictFiles list loads the embedded
// dictionary.
type SegmenterConfig struct {
	Engine    string   `yaml:"engine"`
	DictFiles []string `yaml:"dictFiles"`
	HMM       bool     `yaml:"hmm"`
}

// PipelineConfig controls the analysis pipeline as a whole.
type PipelineConfig struct {
	Budget        time.Duration `yaml:"budget"`
	PreviewLength int           `yaml:"previewLength"`
	TopLines      int           `yaml:"topLines"`
}

// ChartsConfig fixes the top-N cutoff per chart kind and carries the
// options handed to the external renderer.
type ChartsConfig struct {
	Limits map[string]int `yaml:"limits"`
	Render RenderConfig   `yaml:"render"`
}

// RenderConfig is passed through to the rendering collaborator untouched.
type RenderConfig struct {
	FontPath string `yaml:"fontPath" json:"font_path,omitempty"`
	Locale   string `yaml:"locale" json:"locale,omitempty"`
	Width    int    `yaml:"width" json:"width,omitempty"`
	Height   int    `yaml:"height" json:"height,omitempty"`
}

// KafkaConfig holds broker settings for the analysis event stream. Events
// are only published when Enabled is set.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads an optional .env file and YAML config file, then applies
// environment-variable overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env file: %w", err)
	}
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rateLimit must not be negative, got %d", c.Server.RateLimit)
	}
	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be positive, got %v", c.Fetcher.Timeout)
	}
	if c.Fetcher.Retry.MaxAttempts < 1 {
		return fmt.Errorf("fetcher.retry.maxAttempts must be at least 1, got %d", c.Fetcher.Retry.MaxAttempts)
	}
	if c.Pipeline.PreviewLength < 0 {
		return fmt.Errorf("pipeline.previewLength must not be negative, got %d", c.Pipeline.PreviewLength)
	}
	switch c.Segmenter.Engine {
	case "gse", "fields":
	default:
		return fmt.Errorf("segmenter.engine must be gse or fields, got %q", c.Segmenter.Engine)
	}
	for kind, limit := range c.Charts.Limits {
		if limit < 1 {
			return fmt.Errorf("charts.limits.%s must be at least 1, got %d", kind, limit)
		}
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	return nil
}

// defaultConfig returns a Config with defaults for local development.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			AllowOrigins:    []string{"*"},
			RateLimit:       30,
		},
		Fetcher: FetcherConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36",
			MaxBodyBytes: 10 << 20,
			Retry: RetryConfig{
				MaxAttempts:  3,
				InitialDelay: 500 * time.Millisecond,
				MaxDelay:     5 * time.Second,
				Multiplier:   2.0,
				Jitter:       0.1,
			},
		},
		Segmenter: SegmenterConfig{
			Engine: "gse",
			HMM:    true,
		},
		Pipeline: PipelineConfig{
			Budget:        60 * time.Second,
			PreviewLength: 500,
			TopLines:      20,
		},
		Charts: ChartsConfig{
			Limits: map[string]int{},
			Render: RenderConfig{
				Width:  800,
				Height: 600,
			},
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "wordfreq.analysis-completed",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads WF_* environment variables and overrides the
// corresponding config fields. Unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WF_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WF_SERVER_ALLOW_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("WF_SERVER_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimit = n
		}
	}
	if v := os.Getenv("WF_FETCHER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Fetcher.Timeout = d
		}
	}
	if v := os.Getenv("WF_FETCHER_USER_AGENT"); v != "" {
		cfg.Fetcher.UserAgent = v
	}
	if v := os.Getenv("WF_FETCHER_RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetcher.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("WF_FETCHER_RETRY_INITIAL_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Fetcher.Retry.InitialDelay = d
		}
	}
	if v := os.Getenv("WF_SEGMENTER_ENGINE"); v != "" {
		cfg.Segmenter.Engine = v
	}
	if v := os.Getenv("WF_SEGMENTER_DICT_FILES"); v != "" {
		cfg.Segmenter.DictFiles = strings.Split(v, ",")
	}
	if v := os.Getenv("WF_SEGMENTER_HMM"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Segmenter.HMM = b
		}
	}
	if v := os.Getenv("WF_PIPELINE_BUDGET"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Pipeline.Budget = d
		}
	}
	if v := os.Getenv("WF_PIPELINE_PREVIEW_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.PreviewLength = n
		}
	}
	if v := os.Getenv("WF_CHARTS_FONT_PATH"); v != "" {
		cfg.Charts.Render.FontPath = v
	}
	if v := os.Getenv("WF_KAFKA_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = b
		}
	}
	if v := os.Getenv("WF_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("WF_KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("WF_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WF_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("WF_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("WF_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
