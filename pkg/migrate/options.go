package migrate

import (
	"log/slog"
	"time"

	"github.com/pmclSF/hamlet/pkg/migrate/normalize"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// Hooks defines callbacks for status updates during conversion runs.
// Implementations must be thread-safe: batch runners call them from worker
// goroutines.
type Hooks interface {
	OnFileDiscovered(path string) error
	OnFileConverted(path string, report ConversionReport, duration time.Duration) error
	OnRunComplete(report RunReport) error
}

// NoOpHooks is the default, do-nothing Hooks implementation.
type NoOpHooks struct{}

// OnFileDiscovered implements Hooks. It performs no action.
func (h *NoOpHooks) OnFileDiscovered(string) error { return nil }

// OnFileConverted implements Hooks. It performs no action.
func (h *NoOpHooks) OnFileConverted(string, ConversionReport, time.Duration) error { return nil }

// OnRunComplete implements Hooks. It performs no action.
func (h *NoOpHooks) OnRunComplete(RunReport) error { return nil }

// Options configures a conversion. The zero value is usable: defaults are a
// discard logger, the built-in adapter registry, the charset normalizer and
// the ir-patch emitter.
type Options struct {
	// Language disambiguates same-named frameworks across languages
	// ("selenium" exists for both JavaScript and Python). Empty picks an
	// arbitrary match.
	Language string

	// Emitter selects the emission strategy. Empty means EmitterIRPatch.
	Emitter EmitterMode

	// DefaultEncoding is the fallback charset for uncertain input encodings.
	DefaultEncoding string

	// SkipValidation drops the post-emit validator pass.
	SkipValidation bool

	// Injected dependencies. Nil fields get defaults.
	Logger     slog.Handler
	Registry   *registry.Registry
	Normalizer normalize.Normalizer
	Hooks      Hooks
}
