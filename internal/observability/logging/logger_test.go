package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestNewJSONLoggerToWritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLoggerTo(&buf, "retail-api", "warn")

	logger.Info("dropped")
	logger.Warn("backend_call", "operation", "predict_sales")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected exactly one json line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "retail-api" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
	if entry["msg"] != "backend_call" || entry["operation"] != "predict_sales" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
