package config

import (
	"errors"

	"github.com/dshills/linedoc/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownSetting indicates a key no section defines.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates a value of the right type outside its
	// allowed range.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError
