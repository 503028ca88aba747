package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// SlowOperationThreshold is the duration above which OperationTimer warns.
const SlowOperationThreshold = 2 * time.Second

// OperationTimer provides a defer-friendly way to measure operation duration.
// The returned function logs at debug level, or warn when the operation exceeded
// SlowOperationThreshold, and reports the elapsed time.
//
// Usage:
//
//	done := utils.OperationTimer("demo_refresh", log)
//	defer done()
func OperationTimer(operation string, log zerolog.Logger) func() time.Duration {
	start := time.Now()

	return func() time.Duration {
		duration := time.Since(start)

		event := log.Debug()
		if duration > SlowOperationThreshold {
			event = log.Warn()
		}
		event.
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		return duration
	}
}
