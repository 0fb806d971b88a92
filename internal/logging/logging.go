// Package logging builds the zap loggers used by linedoc.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level, encoding and destination of a logger.
type Options struct {
	// Level is a zap level name such as "debug" or "warn". Empty means
	// "info".
	Level string
	// Format is "console" or "json". Empty means "console".
	Format string
	// File is the path logs are appended to. Empty means Output.
	File string
	// Output receives logs when File is empty. Nil means stderr.
	Output io.Writer
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New builds a logger. The returned close function flushes the logger and
// closes the log file, if one was opened.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(opts.Level); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}

	var enc zapcore.Encoder
	switch opts.Format {
	case "", "console":
		enc = zapcore.NewConsoleEncoder(encoderConfig())
	case "json":
		enc = zapcore.NewJSONEncoder(encoderConfig())
	default:
		return nil, nil, fmt.Errorf("log format: unknown %q", opts.Format)
	}

	var (
		out     zapcore.WriteSyncer
		logFile *os.File
	)
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		logFile = f
		out = zapcore.AddSync(f)
	case opts.Output != nil:
		out = zapcore.AddSync(opts.Output)
	default:
		out = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(enc, out, level)
	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	closer := func() {
		_ = log.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return log, closer, nil
}
