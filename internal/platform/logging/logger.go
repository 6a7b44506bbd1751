// Package logging installs a zap-backed slog default logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config controls level, encoding and destination of log output.
type Config struct {
	Level  string
	Format string
	// File is a path to a rotated log file. Empty means stdout.
	File string
}

// LoadConfig reads LOG_LEVEL, LOG_FORMAT and LOG_FILE.
func LoadConfig() Config {
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if format == "" {
		format = FormatJSON
	}
	return Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: format,
		File:   os.Getenv("LOG_FILE"),
	}
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func buildEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if format == FormatConsole {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func buildWriter(file string) (zapcore.WriteSyncer, error) {
	if file == "" {
		return zapcore.AddSync(os.Stdout), nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
		Compress:   true,
	}), nil
}

// NewCore builds the zap core writing to w, or to cfg.File/stdout when w is nil.
func NewCore(cfg Config, w io.Writer) (zapcore.Core, error) {
	var ws zapcore.WriteSyncer
	if w != nil {
		ws = zapcore.AddSync(w)
	} else {
		var err error
		if ws, err = buildWriter(cfg.File); err != nil {
			return nil, err
		}
	}
	return zapcore.NewCore(buildEncoder(cfg.Format), ws, parseLevel(cfg.Level)), nil
}

// New returns a slog.Logger backed by zap and a flush function.
func New(cfg Config, w io.Writer) (*slog.Logger, func(), error) {
	core, err := NewCore(cfg, w)
	if err != nil {
		return nil, nil, err
	}
	zl := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
	logger := slog.New(zapslog.NewHandler(zl.Core(), zapslog.WithCaller(true)))
	return logger, func() { _ = zl.Sync() }, nil
}

// Install builds a logger from cfg and makes it the slog default.
// The returned function flushes buffered entries and should be deferred by main.
func Install(cfg Config) (func(), error) {
	logger, sync, err := New(cfg, nil)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return sync, nil
}
