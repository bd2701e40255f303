package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("registry loaded", String("path", "clients.json"), Int("clients", 42))

	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Errorf("expected INFO level marker in %q", line)
	}
	if !strings.Contains(line, "registry loaded") {
		t.Errorf("expected message in %q", line)
	}
	if !strings.Contains(line, "path=clients.json") {
		t.Errorf("expected path attribute in %q", line)
	}
	if !strings.Contains(line, "clients=42") {
		t.Errorf("expected clients attribute in %q", line)
	}
}

func TestNewConsoleComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	NewComponentLogger(logger, "matcher").Debug("strategy evaluated", String("method", "exact_email"))

	line := buf.String()
	if !strings.Contains(line, "matcher: strategy evaluated") {
		t.Errorf("expected component prefix in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component attribute should be folded into the prefix, got %q", line)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("batch complete", Int("matched", 7))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["msg"] != "batch complete" {
		t.Errorf("msg = %v, want batch complete", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("expected ts field in JSON output")
	}
	if entry["matched"] != float64(7) {
		t.Errorf("matched = %v, want 7", entry["matched"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn line missing from %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMaybeQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"", `""`},
		{"has space", `"has space"`},
		{"a=b", `"a=b"`},
	}
	for _, tt := range tests {
		if got := maybeQuote(tt.input); got != tt.want {
			t.Errorf("maybeQuote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
