package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "info", "warn", "warning", "error", "fatal", "INFO", ""} {
		if _, err := ParseLevel(name); err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) succeeded, want error")
	}
}

func TestPackageLogLevel(t *testing.T) {
	t.Cleanup(func() {
		mut.Lock()
		packageLevels = make(map[string]zapcore.Level)
		mut.Unlock()
		_ = SetLogLevel("info")
	})
	if err := SetLogLevel("error"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := NewWithDest(&buf, "test")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at error level: %q", buf.String())
	}

	// this file lives in the logging package
	if err := SetPackageLogLevel("logging", "debug"); err != nil {
		t.Fatal(err)
	}
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug message missing after package override: %q", buf.String())
	}
}

func BenchmarkInnerLogger(b *testing.B) {
	_ = SetLogLevel("error")
	logger := New("bench").(*wrapper).inner

	for i := 0; i < b.N; i++ {
		logger.Info("bench")
	}
}

func BenchmarkWrappedLoggerNoPackages(b *testing.B) {
	_ = SetLogLevel("error")
	logger := New("bench")

	for i := 0; i < b.N; i++ {
		logger.Info("bench")
	}
}

func BenchmarkWrappedLoggerWithPackages(b *testing.B) {
	_ = SetLogLevel("error")
	_ = SetPackageLogLevel("report", "error")
	_ = SetPackageLogLevel("plotting", "error")
	logger := New("bench")

	for i := 0; i < b.N; i++ {
		logger.Info("bench")
	}
}
