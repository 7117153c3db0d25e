// Package output provides terminal output, styling and logging for glu.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"
)

// simpleHandler is a custom slog handler that writes bare messages to the
// terminal, without timestamps or level prefixes
type simpleHandler struct {
	writer    io.Writer
	debugMode bool
	quiet     *bool
}

func (h *simpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *simpleHandler) Handle(_ context.Context, record slog.Record) error {
	if *h.quiet {
		return nil
	}
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *simpleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *simpleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// createLumberjackLogger creates a rotating file logger, configurable via
// GLU_LOG_MAX_SIZE / GLU_LOG_MAX_BACKUPS / GLU_LOG_MAX_AGE
func createLumberjackLogger(logFilePath string) *lumberjack.Logger {
	config := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1,  // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
		Compress:   false,
	}

	if maxSizeStr := os.Getenv("GLU_LOG_MAX_SIZE"); maxSizeStr != "" {
		if maxSize, err := strconv.Atoi(maxSizeStr); err == nil && maxSize > 0 {
			config.MaxSize = maxSize
		}
	}
	if maxBackupsStr := os.Getenv("GLU_LOG_MAX_BACKUPS"); maxBackupsStr != "" {
		if maxBackups, err := strconv.Atoi(maxBackupsStr); err == nil && maxBackups >= 0 {
			config.MaxBackups = maxBackups
		}
	}
	if maxAgeStr := os.Getenv("GLU_LOG_MAX_AGE"); maxAgeStr != "" {
		if maxAge, err := strconv.Atoi(maxAgeStr); err == nil && maxAge > 0 {
			config.MaxAge = maxAge
		}
	}

	return config
}

// Splog provides terminal output fanned out to a rotating log file
type Splog struct {
	logger    *slog.Logger
	logWriter io.WriteCloser
	quiet     bool
}

// NewSplog creates a splog that logs to the terminal and the default log
// file. Debug messages are enabled when the DEBUG environment variable is set.
func NewSplog() *Splog {
	splog, err := NewSplogWithFile(LogFilePath())
	if err != nil {
		// Fall back to console-only when the log dir cannot be created
		splog, _ = NewSplogWithFile("")
	}
	return splog
}

// NewSplogWithFile creates a splog with an optional rotating log file.
// An empty path disables file logging.
func NewSplogWithFile(logFilePath string) (*Splog, error) {
	debugMode := os.Getenv("DEBUG") != ""
	splog := &Splog{}

	consoleHandler := &simpleHandler{
		writer:    os.Stdout,
		debugMode: debugMode,
		quiet:     &splog.quiet,
	}

	handlers := []slog.Handler{consoleHandler}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		lumberjackLogger := createLumberjackLogger(logFilePath)
		splog.logWriter = lumberjackLogger

		fileHandler := slog.NewTextHandler(lumberjackLogger, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{Key: a.Key, Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000"))}
				}
				return a
			},
		})
		handlers = append(handlers, fileHandler)
	}

	splog.logger = slog.New(&multiHandler{handlers: handlers})
	return splog, nil
}

// SetQuiet suppresses all terminal output when true
func (s *Splog) SetQuiet(quiet bool) {
	s.quiet = quiet
}

func (s *Splog) logMessage(level slog.Level, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, msg)
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	s.logMessage(slog.LevelInfo, format, args...)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	s.logMessage(slog.LevelWarn, WarningStyle.Render("⚠")+" "+format, args...)
}

// Debug writes a debug message, shown only when DEBUG is set
func (s *Splog) Debug(format string, args ...interface{}) {
	s.logMessage(slog.LevelDebug, format, args...)
}

// Newline writes a blank line
func (s *Splog) Newline() {
	s.logMessage(slog.LevelInfo, "")
}

// Close releases the file log writer
func (s *Splog) Close() error {
	if s.logWriter != nil {
		return s.logWriter.Close()
	}
	return nil
}
