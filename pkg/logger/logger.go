// Package logger provides the levelled logging used outside the decode and
// enhancement cores, which never log.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel - log level type
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogError
)

var logLevelPrefix = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogError: "ERROR",
}

// ILogger - Generic logger interface
type ILogger interface {
	Printf(level LogLevel, format string, a ...interface{})
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Errorf(format string, a ...interface{})
	SetLogLevel(level LogLevel)
	GetLogLevel() LogLevel
}

// ParseLogLevel accepts "debug", "info" or "error" in any case
func ParseLogLevel(s string) (LogLevel, error) {
	for level, prefix := range logLevelPrefix {
		if strings.EqualFold(s, prefix) {
			return level, nil
		}
	}
	return LogInfo, fmt.Errorf("unknown log level: %q", s)
}

// StdOutLogger writes to stdout through the standard log package
type StdOutLogger struct {
	logLevel LogLevel
	out      *log.Logger
}

// NewStdOutLogger creates a logger printing messages at or above level
func NewStdOutLogger(level LogLevel) *StdOutLogger {
	return NewWriterLogger(os.Stdout, level)
}

// NewWriterLogger is NewStdOutLogger for an arbitrary writer
func NewWriterLogger(w io.Writer, level LogLevel) *StdOutLogger {
	return &StdOutLogger{logLevel: level, out: log.New(w, "", log.LstdFlags)}
}

func (l *StdOutLogger) Printf(level LogLevel, format string, a ...interface{}) {
	if l.logLevel > level {
		return
	}
	l.out.Println(logLevelPrefix[level] + ": " + fmt.Sprintf(format, a...))
}
func (l *StdOutLogger) Debugf(format string, a ...interface{}) {
	l.Printf(LogDebug, format, a...)
}
func (l *StdOutLogger) Infof(format string, a ...interface{}) {
	l.Printf(LogInfo, format, a...)
}
func (l *StdOutLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}
func (l *StdOutLogger) SetLogLevel(level LogLevel) {
	l.logLevel = level
}
func (l *StdOutLogger) GetLogLevel() LogLevel {
	return l.logLevel
}

// NullLogger - For mocking out in tests
type NullLogger struct {
}

func (l *NullLogger) Printf(level LogLevel, format string, a ...interface{}) {
	// We do nothing!
}
func (l *NullLogger) Debugf(format string, a ...interface{}) {
}
func (l *NullLogger) Infof(format string, a ...interface{}) {
}
func (l *NullLogger) Errorf(format string, a ...interface{}) {
}
func (l *NullLogger) SetLogLevel(level LogLevel) {
}
func (l *NullLogger) GetLogLevel() LogLevel {
	return LogError
}
