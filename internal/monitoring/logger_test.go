package monitoring

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestDebugfMutedByDefault(t *testing.T) {
	original := Debugf
	defer func() { Debugf = original }()

	if Debugf == nil {
		t.Fatal("Debugf should not be nil by default")
	}
	Debugf("detail %d", 1)

	var got string
	SetDebugLogger(func(format string, v ...interface{}) { got = fmt.Sprintf(format, v...) })
	Debugf("detail %d", 2)
	if got != "detail 2" {
		t.Errorf("Debugf output = %q, want %q", got, "detail 2")
	}

	got = ""
	SetDebugLogger(nil)
	Debugf("detail %d", 3)
	if got != "" {
		t.Errorf("muted Debugf wrote %q", got)
	}
}

func TestInstall(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Install(zap.New(core))

	Logf("poll %s", "ok")
	Debugf("ray %d", 7)
	restore()
	Logf("after restore")

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Message != "poll ok" || entries[0].Level != zapcore.InfoLevel {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Message != "ray 7" || entries[1].Level != zapcore.DebugLevel {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestNewZapLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sunplant.log")
	l := NewZapLogger(true, DefaultFileOptions(path))
	l.Info("hello")
	if err := l.Sync(); err != nil {
		// Syncing stdout can fail on some terminals; the file core is what matters.
		t.Logf("sync: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing message: %q", data)
	}
}
