package dehaze

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid dehaze configuration")
	ErrInvalidImage  = errors.New("invalid image buffer")
)

// ConfigError reports a single rejected configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
