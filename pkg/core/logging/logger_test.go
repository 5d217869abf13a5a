package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdwlog "github.com/msto63/leitstand/foundation/core/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  mdwlog.Level
	}{
		{"debug", mdwlog.LevelDebug},
		{"warning", mdwlog.LevelWarn},
		{"off", mdwlog.LevelOff},
		{"", mdwlog.LevelInfo},
		{"nonsense", mdwlog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  mdwlog.Format
	}{
		{"json", mdwlog.FormatJSON},
		{" JSON ", mdwlog.FormatJSON},
		{"text", mdwlog.FormatText},
		{"console", mdwlog.FormatText},
		{"", mdwlog.FormatText},
		{"xml", mdwlog.FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFormat(tt.input); got != tt.want {
				t.Errorf("parseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLoggerFormat(t *testing.T) {
	tests := []struct {
		format string
		json   bool
	}{
		{"json", true},
		{" Json", true},
		{"console", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(LoggerConfig{ServiceName: "leitstand", Level: "info", Format: tt.format, Output: &buf})
			logger.Info("started")

			line := bytes.TrimSpace(buf.Bytes())
			if len(line) == 0 {
				t.Fatal("nothing logged")
			}
			if got := json.Valid(line); got != tt.json {
				t.Errorf("json.Valid(%q) = %v, want %v", line, got, tt.json)
			}
		})
	}
}

func TestNewUsesConfiguredRoot(t *testing.T) {
	var buf bytes.Buffer
	Configure(LoggerConfig{ServiceName: "leitstand", Level: "debug", Format: "text", Output: &buf})
	t.Cleanup(func() { Configure(LoggerConfig{Level: "off"}) })

	logger := New("router")
	if logger.Name() != "router" {
		t.Errorf("Name() = %q", logger.Name())
	}
	logger.Debug("resolved", "path", "/home")

	out := buf.String()
	if !strings.Contains(out, "{router} resolved") || !strings.Contains(out, "path=/home") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	base := Wrap(NewLogger(LoggerConfig{Level: "info", Output: &buf}), "composer")

	base.With("route", "/status").Info("rendered", "ms", 3)
	if !strings.Contains(buf.String(), "[ms=3 route=/status]") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestToFields(t *testing.T) {
	fields := toFields("a", 1, 2, "ignored", "dangling")
	if len(fields) != 1 || fields["a"] != 1 {
		t.Errorf("toFields() = %v", fields)
	}
	if toFields() != nil {
		t.Error("toFields() without pairs should be nil")
	}
}

func TestNop(t *testing.T) {
	Nop().Error("dropped", "k", "v")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "leitstand.log")
	w, err := NewFileWriter(FileWriterConfig{Path: path})
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}

	logger := NewLogger(LoggerConfig{ServiceName: "test", Level: "info", Output: w})
	logger.Info("hello file")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Errorf("log file content = %q", data)
	}

	var fallback bytes.Buffer
	w.fallback = &fallback
	if _, err := w.Write([]byte("after close\n")); err != nil {
		t.Fatalf("Write() after close error = %v", err)
	}
	if fallback.String() != "after close\n" {
		t.Errorf("fallback = %q", fallback.String())
	}
}
