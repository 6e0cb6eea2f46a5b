package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, LogInfo)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Errorf("failed %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "INFO: shown 2") {
		t.Errorf("Expected info message, got %q", out)
	}
	if !strings.Contains(out, "ERROR: failed 3") {
		t.Errorf("Expected error message, got %q", out)
	}

	l.SetLogLevel(LogDebug)
	l.Debugf("visible")
	if !strings.Contains(buf.String(), "DEBUG: visible") {
		t.Errorf("Expected debug message after lowering level, got %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("Error")
	if err != nil || level != LogError {
		t.Errorf("Expected LogError, got %v (%v)", level, err)
	}

	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level, got nil")
	}
}
