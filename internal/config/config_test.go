package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LLM_PROVIDER", "LLM_MODEL", "LLM_TIMEOUT",
		"MAX_INPUT_CHARS", "USER_AGENT", "WEB_CONTEXT_POLICY", "PDF_CONTEXT_POLICY",
		"CACHE_PROVIDER", "SESSION_PROVIDER", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LLMProvider", cfg.LLMProvider, "openai"},
		{"LLMModel", cfg.LLMModel, "gpt-4o-mini"},
		{"LLMTimeout", cfg.LLMTimeout, 30 * time.Second},
		{"MaxInputChars", cfg.MaxInputChars, 12000},
		{"UserAgent", cfg.UserAgent, "summarizer/1.0"},
		{"WebContextPolicy", cfg.WebContextPolicy, "model_input"},
		{"PDFContextPolicy", cfg.PDFContextPolicy, "full_text"},
		{"CacheProvider", cfg.CacheProvider, "none"},
		{"SessionProvider", cfg.SessionProvider, "memory"},
		{"OpenAIKey", cfg.OpenAIKey, ""},
		{"LLMTemperature", cfg.LLMTemperature, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_INPUT_CHARS", "500")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("LLM_TEMPERATURE", "0")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.MaxInputChars != 500 {
		t.Errorf("expected MaxInputChars 500, got %d", cfg.MaxInputChars)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("expected FetchTimeout 5s, got %v", cfg.FetchTimeout)
	}
	if cfg.LLMTemperature != 0 {
		t.Errorf("expected explicit LLMTemperature 0, got %v", cfg.LLMTemperature)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "stub")
	t.Setenv("CACHE_PROVIDER", "redis")

	cfg := Load()

	if cfg.LLMProvider != "stub" {
		t.Errorf("expected LLM provider 'stub', got %s", cfg.LLMProvider)
	}
	if cfg.CacheProvider != "redis" {
		t.Errorf("expected cache provider 'redis', got %s", cfg.CacheProvider)
	}
}
