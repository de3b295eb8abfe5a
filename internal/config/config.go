package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the gateway and the CLI.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// LLM
	LLMProvider    string        `env:"LLM_PROVIDER" envDefault:"openai"` // "openai" or "stub" (deterministic echo, for local runs)
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMBaseURL     string        `env:"LLM_BASE_URL"` // any OpenAI-compatible endpoint
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.2"`

	// Extraction
	MaxInputChars    int           `env:"MAX_INPUT_CHARS" envDefault:"12000"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"20s"`
	FetchRetries     int           `env:"FETCH_RETRIES" envDefault:"2"`
	FetchMaxBody     int64         `env:"FETCH_MAX_BODY" envDefault:"5242880"` // 5MB
	UserAgent        string        `env:"USER_AGENT" envDefault:"summarizer/1.0"`
	WebContextPolicy string        `env:"WEB_CONTEXT_POLICY" envDefault:"model_input"` // "model_input" or "full_text"
	PDFContextPolicy string        `env:"PDF_CONTEXT_POLICY" envDefault:"full_text"`
	TempDir          string        `env:"TEMP_DIR"` // empty means os.TempDir()

	// Cache
	CacheProvider string        `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Sessions
	SessionProvider string        `env:"SESSION_PROVIDER" envDefault:"memory"` // "memory" or "redis"
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
