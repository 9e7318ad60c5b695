package logger

import (
	"path/filepath"
	"testing"

	"github.com/dbsmedya/gosweep/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string // String representation of zapcore.Level
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"}, // empty defaults to info
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"}, // unknown defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := parseLevel(tt.input)
			if level.String() != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, level.String(), tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.LoggingConfig
	}{
		{
			name: "json format info level",
			cfg: &config.LoggingConfig{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
		},
		{
			name: "text format debug level",
			cfg: &config.LoggingConfig{
				Level:  "debug",
				Format: "text",
				Output: "stdout",
			},
		},
		{
			name: "file output",
			cfg: &config.LoggingConfig{
				Level:  "warn",
				Format: "json",
				Output: filepath.Join(t.TempDir(), "gosweep.log"),
			},
		},
		{
			name: "stderr output",
			cfg: &config.LoggingConfig{
				Level:  "error",
				Format: "text",
				Output: "stderr",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if logger == nil {
				t.Fatal("New() returned nil logger without error")
			}
			_ = logger.Sync()
		})
	}
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	if logger == nil {
		t.Fatal("NewDefault() returned nil")
	}

	// Should be able to log without panic
	logger.Info("test message")
	_ = logger.Sync()
}

func TestContextHelpers(t *testing.T) {
	logger := NewDefault()

	runLogger := logger.WithRun("run-123")
	if runLogger == nil {
		t.Fatal("WithRun() returned nil")
	}
	runLogger.Infow("run context attached")

	targetLogger := runLogger.WithTarget("PC1")
	if targetLogger == nil {
		t.Fatal("WithTarget() returned nil")
	}
	targetLogger.Infow("target context attached")

	stageLogger := targetLogger.WithStage("dispatch")
	if stageLogger == nil {
		t.Fatal("WithStage() returned nil")
	}
	stageLogger.Infow("stage context attached")

	// Derived loggers share the base; the parent stays usable.
	logger.Info("parent logger still works")
	_ = logger.Sync()
}

func TestWithFields(t *testing.T) {
	logger := NewDefault()

	fieldLogger := logger.WithFields(map[string]interface{}{
		"target": "PC1",
		"root":   "/data",
	})
	if fieldLogger == nil {
		t.Fatal("WithFields() returned nil")
	}
	fieldLogger.Infow("fields attached")
	_ = fieldLogger.Sync()
}
