// Package observability provides structured logging, metrics, and tracing
// for oncekit holders.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds holder context to a logger.
// Returns a new logger with holder and scope fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "id-generator", "3f1c...")
//	enriched.Info("constructed") // includes holder, scope
func EnrichLogger(logger *slog.Logger, holder, scope string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("holder", holder),
		slog.String("scope", scope),
	)
}

// LogConstructStart logs the start of a factory invocation.
func LogConstructStart(logger *slog.Logger, holder string) {
	if logger == nil {
		return
	}
	logger.Debug("construction starting",
		slog.String("holder", holder),
	)
}

// LogConstructComplete logs a successful construction.
func LogConstructComplete(logger *slog.Logger, holder string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("construction completed",
		slog.String("holder", holder),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogConstructError logs a failed construction. The holder stays uninitialized.
func LogConstructError(logger *slog.Logger, holder string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("construction failed",
		slog.String("holder", holder),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogReset logs a holder returning to the uninitialized state.
func LogReset(logger *slog.Logger, holder string) {
	if logger == nil {
		return
	}
	logger.Debug("instance released",
		slog.String("holder", holder),
	)
}

// LogStorageLoad logs the outcome of loading a persisted instance.
func LogStorageLoad(logger *slog.Logger, holder string, found bool) {
	if logger == nil {
		return
	}
	logger.Debug("storage load",
		slog.String("holder", holder),
		slog.Bool("found", found),
	)
}

// LogStorageError logs a storage or lock failure. The error is still returned
// to the caller; this only records it.
func LogStorageError(logger *slog.Logger, holder string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("storage operation failed",
		slog.String("holder", holder),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
