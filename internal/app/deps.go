package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"doc-digest/internal/cache"
	"doc-digest/internal/config"
	"doc-digest/internal/extract"
	"doc-digest/internal/llm"
	"doc-digest/internal/logger"
	"doc-digest/internal/metrics"
	"doc-digest/internal/pipeline"
	"doc-digest/internal/session"
	"doc-digest/internal/summarizer"
)

// Deps bundles common runtime dependencies for the gateway and the CLI.
type Deps struct {
	Config     config.Config
	Log        *slog.Logger
	Summarizer *summarizer.Service
	Cache      cache.Cache
	Sessions   session.Store
	Registry   *prometheus.Registry
}

// Build loads env, config, and shared components, logging JSON to stdout.
func Build() (Deps, error) {
	if err := LoadEnv(); err != nil {
		return Deps{}, err
	}
	cfg := config.Load()
	return Assemble(cfg, logger.New(cfg.LogLevel))
}

// LoadEnv reads a .env file from the working directory when one exists.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

// Assemble wires every component from cfg. A model client that cannot be
// built leaves the summarizer unavailable rather than failing startup.
func Assemble(cfg config.Config, log *slog.Logger) (Deps, error) {
	webPolicy, err := summarizer.ParseContextPolicy(cfg.WebContextPolicy, summarizer.ContextModelInput)
	if err != nil {
		return Deps{}, fmt.Errorf("WEB_CONTEXT_POLICY: %w", err)
	}
	pdfPolicy, err := summarizer.ParseContextPolicy(cfg.PDFContextPolicy, summarizer.ContextFullText)
	if err != nil {
		return Deps{}, fmt.Errorf("PDF_CONTEXT_POLICY: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewPrometheus(reg)

	pipes := buildPipelines(cfg, log, rec)

	sessions, err := buildSessions(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize session store: %w", err)
	}
	c := buildCache(cfg, log)

	web := extract.NewWeb(extract.WebOptions{
		Timeout:     cfg.FetchTimeout,
		Retries:     cfg.FetchRetries,
		MaxBodySize: cfg.FetchMaxBody,
		UserAgent:   cfg.UserAgent,
	}, log)
	pdf := extract.NewPDF(cfg.TempDir, log)

	svc := summarizer.NewService(pipes, web, pdf, summarizer.Options{
		MaxInputChars: cfg.MaxInputChars,
		WebPolicy:     webPolicy,
		PDFPolicy:     pdfPolicy,
		Cache:         c,
		CacheTTL:      cfg.CacheTTL,
		Metrics:       rec,
	}, log)

	return Deps{
		Config:     cfg,
		Log:        log,
		Summarizer: svc,
		Cache:      c,
		Sessions:   sessions,
		Registry:   reg,
	}, nil
}

// Close releases the cache and session store connections.
func (d Deps) Close() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			d.Log.Warn("failed to close cache", "err", err)
		}
	}
	if d.Sessions != nil {
		if err := d.Sessions.Close(); err != nil {
			d.Log.Warn("failed to close session store", "err", err)
		}
	}
}

func buildPipelines(cfg config.Config, log *slog.Logger, rec metrics.Recorder) pipeline.Pipelines {
	client, err := buildLLM(cfg, log)
	if err != nil {
		log.Error("error initializing language model", "err", err)
		return pipeline.Unavailable(err)
	}
	pipes := pipeline.New(client, pipeline.WithMetrics(rec))
	if !pipes.Available() {
		log.Error("error initializing prompt pipelines", "err", pipes.Reason())
	}
	return pipes
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel), llm.OpenAIOptions{
			BaseURL:     cfg.LLMBaseURL,
			Timeout:     cfg.LLMTimeout,
			Temperature: &cfg.LLMTemperature,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", cfg.LLMModel, "base_url", cfg.LLMBaseURL)
		return client, nil
	case "stub":
		log.Warn("using stub LLM client; summaries echo their input")
		return llm.NewStubClient(), nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: openai, stub)", cfg.LLMProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis result cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		return c
	case "none", "":
		return cache.NewNoOpCache()
	default:
		log.Warn("unknown CACHE_PROVIDER, caching disabled", "provider", cfg.CacheProvider)
		return cache.NewNoOpCache()
	}
}

func buildSessions(cfg config.Config, log *slog.Logger) (session.Store, error) {
	switch cfg.SessionProvider {
	case "memory", "":
		log.Info("using in-memory session store", "ttl", cfg.SessionTTL)
		return session.NewMemoryStore(cfg.SessionTTL), nil
	case "redis":
		st, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		log.Info("using Redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
		return st, nil
	default:
		return nil, fmt.Errorf("invalid SESSION_PROVIDER: %s (valid options: memory, redis)", cfg.SessionProvider)
	}
}
