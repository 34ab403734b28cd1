package transmem

import (
	"log/slog"

	"github.com/google/uuid"
)

// Diagnostic is the injected sink for non-fatal write-time warnings
// (stale samples, out-of-band rotation norms). Warnings go through an
// injected sink rather than a process-global logger so Memory stays
// testable without capturing log output.
type Diagnostic interface {
	Warn(event string, fields map[string]any)
}

// slogDiagnostics is the default Diagnostic. Every event is tagged with
// a fresh trace ID so repeated warnings from concurrent writers can be
// told apart in aggregated logs.
type slogDiagnostics struct {
	logger *slog.Logger
}

// NewSlogDiagnostics wraps logger as a Diagnostic. A nil logger falls
// back to slog.Default().
func NewSlogDiagnostics(logger *slog.Logger) Diagnostic {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogDiagnostics{logger: logger}
}

func (d *slogDiagnostics) Warn(event string, fields map[string]any) {
	args := make([]any, 0, 2+2*len(fields))
	args = append(args, "trace_id", uuid.New().String())
	for k, v := range fields {
		args = append(args, k, v)
	}
	d.logger.Warn("transmem: "+event, args...)
}

// noopDiagnostics discards every warning. Useful for deterministic
// tests that don't want slog output.
type noopDiagnostics struct{}

func (noopDiagnostics) Warn(string, map[string]any) {}

// NoopDiagnostics returns a Diagnostic that discards every warning.
func NoopDiagnostics() Diagnostic { return noopDiagnostics{} }
