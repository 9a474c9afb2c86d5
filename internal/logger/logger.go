// Package logger provides leveled logging for proxmox-mcp.
//
// The MCP stdio transport owns stdout, so log output must never land there:
// the default destination is stderr, with optional file-based logging under
// the cache directory for long-running servers.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Level represents the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger implements the interfaces.Logger interface with configurable output
// and levels.
type Logger struct {
	out   *log.Logger
	level Level
}

// Config holds configuration for the logger.
type Config struct {
	Level     Level
	Output    io.Writer
	LogToFile bool
	LogFile   string
}

// DefaultConfig returns a default logger configuration writing to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	if config.LogToFile && config.LogFile != "" {
		dir := filepath.Dir(config.LogFile)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		output = file
	}

	return &Logger{
		out:   log.New(output, "", 0),
		level: config.Level,
	}, nil
}

// NewSimpleLogger creates a logger that outputs to stderr with the given level.
func NewSimpleLogger(level Level) *Logger {
	logger, _ := NewLogger(&Config{Level: level, Output: os.Stderr})
	return logger
}

// NewFileLogger creates a logger that outputs to a file with the given level.
func NewFileLogger(level Level, logFile string) (*Logger, error) {
	return NewLogger(&Config{Level: level, LogToFile: true, LogFile: logFile})
}

// NewInternalLogger creates a logger that stores logs in the given cache
// directory. Falls back to the current directory when none is provided.
func NewInternalLogger(level Level, cacheDir string) (*Logger, error) {
	logsDir := cacheDir
	if logsDir == "" {
		logsDir = "."
	}

	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		logsDir = "."
	}

	return NewFileLogger(level, filepath.Join(logsDir, "proxmox-mcp.log"))
}

// formatMessage creates a formatted log message with timestamp and level.
func (l *Logger) formatMessage(level Level, format string, args ...interface{}) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)

	return fmt.Sprintf("[%s] [%s] %s", timestamp, level.String(), message)
}

// Debug logs a debug message (implements interfaces.Logger).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level <= LevelDebug {
		l.out.Println(l.formatMessage(LevelDebug, format, args...))
	}
}

// Info logs an info message (implements interfaces.Logger).
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		l.out.Println(l.formatMessage(LevelInfo, format, args...))
	}
}

// Error logs an error message (implements interfaces.Logger).
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.out.Println(l.formatMessage(LevelError, format, args...))
	}
}
