package config

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/config/loader"
	"github.com/dshills/linedoc/internal/engine"
	"github.com/dshills/linedoc/internal/engine/bidi"
	"github.com/dshills/linedoc/internal/engine/mode"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "LINEDOC_"

// Config holds every setting.
type Config struct {
	History   HistoryConfig
	Selection SelectionConfig
	Document  DocumentConfig
	Logging   LoggingConfig
}

// HistoryConfig configures undo history.
type HistoryConfig struct {
	UndoDepth  int
	EventDelay time.Duration
}

// SelectionConfig configures selection normalization.
type SelectionConfig struct {
	MayTouch bool
}

// DocumentConfig configures new documents.
type DocumentConfig struct {
	LineSeparator string
	Direction     string
	ReadOnly      bool
	FirstLine     int
	Mode          string
}

// LoggingConfig configures the logger built by the logging package.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			UndoDepth:  engine.DefaultUndoDepth,
			EventDelay: engine.DefaultEventDelay,
		},
		Document: DocumentConfig{Direction: "ltr", Mode: "null"},
		Logging:  LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load returns the defaults overridden by the file at path, when it
// exists, and by LINEDOC_* environment variables. An empty path skips
// the file layer.
func Load(path string) (*Config, error) {
	return LoadFrom(loader.DefaultFS(), path, loader.NewEnvLoader(EnvPrefix))
}

// LoadFrom is Load with explicit file system and environment layers. A
// nil env skips the environment layer.
func LoadFrom(fsys loader.FileSystem, path string, env loader.Loader) (*Config, error) {
	merged := map[string]any{}
	if path != "" {
		fileCfg, err := loader.ForFile(fsys, path).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}
	if env != nil {
		envCfg, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envCfg)
	}

	cfg := Default()
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setter stores one raw value into the config.
type setter func(c *Config, v any) error

var settings = map[string]map[string]setter{
	"history": {
		"undoDepth": func(c *Config, v any) (err error) {
			c.History.UndoDepth, err = toInt(v)
			return err
		},
		"eventDelay": func(c *Config, v any) (err error) {
			c.History.EventDelay, err = toDuration(v)
			return err
		},
	},
	"selection": {
		"mayTouch": func(c *Config, v any) (err error) {
			c.Selection.MayTouch, err = toBool(v)
			return err
		},
	},
	"document": {
		"lineSeparator": func(c *Config, v any) (err error) {
			c.Document.LineSeparator, err = toString(v)
			return err
		},
		"direction": func(c *Config, v any) (err error) {
			c.Document.Direction, err = toString(v)
			return err
		},
		"readOnly": func(c *Config, v any) (err error) {
			c.Document.ReadOnly, err = toBool(v)
			return err
		},
		"firstLine": func(c *Config, v any) (err error) {
			c.Document.FirstLine, err = toInt(v)
			return err
		},
		"mode": func(c *Config, v any) (err error) {
			c.Document.Mode, err = toString(v)
			return err
		},
	},
	"logging": {
		"level": func(c *Config, v any) (err error) {
			c.Logging.Level, err = toString(v)
			return err
		},
		"format": func(c *Config, v any) (err error) {
			c.Logging.Format, err = toString(v)
			return err
		},
		"file": func(c *Config, v any) (err error) {
			c.Logging.File, err = toString(v)
			return err
		},
	},
}

// apply stores raw values, in sorted key order so errors are stable.
func (c *Config) apply(raw map[string]any) error {
	for _, section := range sortedKeys(raw) {
		setters, ok := settings[section]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSetting, section)
		}
		values, ok := raw[section].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s: want a table, got %T", ErrTypeMismatch, section, raw[section])
		}
		for _, key := range sortedKeys(values) {
			set, ok := setters[key]
			if !ok {
				return fmt.Errorf("%w: %s.%s", ErrUnknownSetting, section, key)
			}
			if err := set(c, values[key]); err != nil {
				return fmt.Errorf("%s.%s: %w", section, key, err)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.History.UndoDepth < 0 {
		return fmt.Errorf("%w: history.undoDepth must not be negative", ErrValidationFailed)
	}
	if c.History.EventDelay < 0 {
		return fmt.Errorf("%w: history.eventDelay must not be negative", ErrValidationFailed)
	}
	if _, err := bidi.ParseDirection(c.Document.Direction); err != nil {
		return fmt.Errorf("%w: document.direction: %w", ErrValidationFailed, err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", ErrValidationFailed, c.Logging.Format)
	}
	return nil
}

// Options converts the document settings into engine options. The mode
// is looked up in modes.
func (c *Config) Options(modes *mode.Registry, log *zap.Logger) ([]engine.Option, error) {
	dir, err := bidi.ParseDirection(c.Document.Direction)
	if err != nil {
		return nil, err
	}
	m, err := modes.Get(c.Document.Mode)
	if err != nil {
		return nil, fmt.Errorf("document.mode: %w", err)
	}
	opts := []engine.Option{
		engine.WithUndoDepth(c.History.UndoDepth),
		engine.WithHistoryEventDelay(c.History.EventDelay),
		engine.WithSelectionsMayTouch(c.Selection.MayTouch),
		engine.WithLineSeparator(c.Document.LineSeparator),
		engine.WithDirection(dir),
		engine.WithFirstLine(c.Document.FirstLine),
		engine.WithMode(m),
		engine.WithLogger(log),
	}
	if c.Document.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: want an integer, got %v", ErrTypeMismatch, v)
}

func toBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("%w: want a boolean, got %v", ErrTypeMismatch, v)
}

func toString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: want a string, got %v", ErrTypeMismatch, v)
}

// toDuration accepts duration strings and integer milliseconds.
func toDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
		}
		return parsed, nil
	}
	ms, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: want a duration, got %v", ErrTypeMismatch, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
