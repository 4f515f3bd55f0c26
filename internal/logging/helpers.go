package logging

import (
	"maps"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// WithFields attaches structured fields to a logger. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	return logger.WithFields(maps.Clone(fields))
}
