// Package logging builds the zap logger shared by the crawler.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Plugin is one output of the logger.
type Plugin = zapcore.Core

// Options select outputs and verbosity.
type Options struct {
	Level      string
	Structured bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func DefaultEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func encoder(structured bool) zapcore.Encoder {
	if structured {
		return zapcore.NewJSONEncoder(DefaultEncoderConfig())
	}
	return zapcore.NewConsoleEncoder(DefaultEncoderConfig())
}

// NewWriterPlugin writes entries at or above level to w.
func NewWriterPlugin(w io.Writer, level zapcore.LevelEnabler, structured bool) Plugin {
	return zapcore.NewCore(encoder(structured), zapcore.AddSync(w), level)
}

// NewStderrPlugin writes to standard error.
func NewStderrPlugin(level zapcore.LevelEnabler, structured bool) Plugin {
	return zapcore.NewCore(encoder(structured), zapcore.Lock(os.Stderr), level)
}

// NewFilePlugin writes JSON entries to a size-rotated file. The returned
// closer flushes and closes the current file.
func NewFilePlugin(opts Options, level zapcore.LevelEnabler) (Plugin, io.Closer) {
	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
		Compress:   opts.Compress,
	}
	return zapcore.NewCore(encoder(true), zapcore.AddSync(lj), level), lj
}

// NewLogger tees all plugins into one logger.
func NewLogger(plugins ...Plugin) *zap.Logger {
	return zap.New(zapcore.NewTee(plugins...), zap.AddCaller(), zap.AddStacktrace(zapcore.DPanicLevel))
}

// New builds the process logger from opts. The closer must be called
// before exit; it is a no-op when no file output is configured.
func New(opts Options) (*zap.Logger, io.Closer, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	plugins := []Plugin{NewStderrPlugin(level, opts.Structured)}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		p, c := NewFilePlugin(opts, level)
		plugins = append(plugins, p)
		closer = c
	}
	return NewLogger(plugins...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
