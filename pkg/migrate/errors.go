package migrate

import "errors"

// Exported error variables. Library users check against these with
// errors.Is. Only structurally impossible requests fail a conversion:
// everything else degrades to annotated output plus a lowered confidence
// score.

var (
	// ErrUnknownFramework indicates a source or target framework name that is
	// not in the registry. Fatal, surfaced immediately, never silently
	// substituted.
	ErrUnknownFramework = errors.New("unknown framework")

	// ErrDetectionMismatch indicates non-empty input that scored zero against
	// the claimed source framework. Fatal: it prevents parsing garbage under
	// a wrong grammar-free heuristic.
	ErrDetectionMismatch = errors.New("source does not appear to match the claimed framework")

	// ErrConfigValidation indicates invalid engine options.
	ErrConfigValidation = errors.New("invalid configuration options provided")
)
