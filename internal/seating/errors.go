package seating

import "fmt"

// ConfigError reports a classroom or roster configuration that can
// never produce a valid chart. It is raised during construction,
// before any placement attempt runs.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ExhaustedError reports that every placement attempt failed. The
// configuration is likely over-constrained rather than invalid.
type ExhaustedError struct {
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("could not generate a valid seating chart after %d attempts; constraints may be too restrictive", e.Attempts)
}
