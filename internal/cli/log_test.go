package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", LogInfo, func(l *log.Logger) { l.Info("mapped") }, true},
		{"debug at info", LogInfo, func(l *log.Logger) { l.Debug("frame") }, false},
		{"debug at debug", LogDebug, func(l *log.Logger) { l.Debug("frame") }, true},
		{"warn at info", LogInfo, func(l *log.Logger) { l.Warn("fallback") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("wrote output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug message written at info level: %q", buf.String())
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug message missing after SetLogLevel: %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, LogInfo))
	p.now = func() time.Time { return p.start.Add(1234567 * time.Microsecond) }

	p.done("Mapping complete", "domains", 8)

	out := buf.String()
	for _, want := range []string{"Mapping complete", "elapsed=1.235s", "domains=8"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	custom := log.New(&bytes.Buffer{})
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext() did not return the attached logger")
	}

	if loggerFromContext(withLogger(context.Background(), nil)) != log.Default() {
		t.Error("a nil attached logger should fall back to log.Default()")
	}
}
