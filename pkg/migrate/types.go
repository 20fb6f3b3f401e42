package migrate

// EmitterMode selects the emission strategy. It is chosen by the caller, not
// retried automatically: the trade-off between formatting preservation and
// fidelity belongs to the caller.
type EmitterMode string

const (
	// EmitterLegacy is a pure text rewrite with no IR consultation beyond
	// detection.
	EmitterLegacy EmitterMode = "legacy"
	// EmitterIRPatch is a text rewrite plus IR-informed line replacement for
	// specific constructs. The default.
	EmitterIRPatch EmitterMode = "ir-patch"
	// EmitterIRFull is full tree-walk synthesis from the IR.
	EmitterIRFull EmitterMode = "ir-full"
)

// ConfidenceLevel is the coarse classification of a conversion report score.
type ConfidenceLevel string

const (
	LevelExcellent ConfidenceLevel = "excellent"
	LevelHigh      ConfidenceLevel = "high"
	LevelMedium    ConfidenceLevel = "medium"
	LevelLow       ConfidenceLevel = "low"
)

// levelFor maps a 0-100 score onto a coarse level.
func levelFor(score int) ConfidenceLevel {
	switch {
	case score >= 95:
		return LevelExcellent
	case score >= 80:
		return LevelHigh
	case score >= 60:
		return LevelMedium
	default:
		return LevelLow
	}
}

// OnErrorMode defines batch behaviour when a single file conversion fails.
type OnErrorMode string

const (
	OnErrorContinue OnErrorMode = "continue"
	OnErrorStop     OnErrorMode = "stop"
)

// OutputFormat selects the rendering of the final batch report.
type OutputFormat string

const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatMarkdown OutputFormat = "markdown"
	OutputFormatHTML     OutputFormat = "html"
)
