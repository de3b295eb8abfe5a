package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo}, // Defaults to info
		{"", slog.LevelInfo},        // Defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Fatal("expected non-nil logger")
			}
			if !log.Enabled(context.Background(), tt.expected) {
				t.Errorf("expected level %v to be enabled", tt.expected)
			}
			if tt.expected > slog.LevelDebug && log.Enabled(context.Background(), tt.expected-1) {
				t.Errorf("expected levels below %v to be disabled", tt.expected)
			}
		})
	}
}

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.Info("summary produced", "source", "web", "chars", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "summary produced" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["source"] != "web" {
		t.Errorf("unexpected source: %v", entry["source"])
	}
}
