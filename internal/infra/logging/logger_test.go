package logging

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/runoshun/loom/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	dir := t.TempDir()

	logger, closer, err := New(dir, slog.LevelInfo)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("task spawned", "taskId", "task-a1b2c3d4")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(domain.LogPath(dir))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "task spawned") {
		t.Errorf("log file missing entry: %s", content)
	}
	if !strings.Contains(string(content), "task-a1b2c3d4") {
		t.Errorf("log file missing attribute: %s", content)
	}
}

func TestNew_EmptyDirDiscards(t *testing.T) {
	logger, closer, err := New("", slog.LevelDebug)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	dir := t.TempDir()

	logger, closer, err := New(dir, slog.LevelWarn)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("below threshold")
	logger.Warn("at threshold")
	_ = closer.Close()

	content, _ := os.ReadFile(domain.LogPath(dir))
	if strings.Contains(string(content), "below threshold") {
		t.Error("info entry written despite warn level")
	}
	if !strings.Contains(string(content), "at threshold") {
		t.Error("warn entry missing")
	}
}
