package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dcf.log")
	l, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Debug("computed", zap.Int("periods", 6))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"periods":6`) || !strings.Contains(string(data), `"timestamp"`) {
		t.Fatalf("unexpected log line %s", data)
	}
}

func TestNewLevelFallback(t *testing.T) {
	l, err := New(Config{Level: "loud", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) || !l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected an unknown level to fall back to info")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	L().Info("hello")
	if logs.Len() != 1 || logs.All()[0].Message != "hello" {
		t.Fatalf("expected one observed entry, got %d", logs.Len())
	}
}
