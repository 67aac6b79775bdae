package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
		{
			name:    "knife debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { knifeLogger(l).Debug("test") },
			wantLog: false,
		},
		{
			name:    "knife debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { knifeLogger(l).Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestKnifeLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	knifeLogger(newLogger(&buf, log.InfoLevel)).Info("cut")

	if !strings.Contains(buf.String(), "knife") {
		t.Errorf("output %q should carry the knife prefix", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("replay finished", "edges", 3)

	out := buf.String()
	if !strings.Contains(out, "replay finished") {
		t.Errorf("output %q should contain message", out)
	}
	if !strings.Contains(out, "edges=3") {
		t.Errorf("output %q should contain key/value pairs", out)
	}
}
