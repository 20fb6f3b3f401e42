package migrate

import (
	"fmt"
	"strings"

	"github.com/pmclSF/hamlet/pkg/migrate/ir"
	"github.com/pmclSF/hamlet/pkg/migrate/registry"
)

// transform is the pipeline step between parse and emit. For same-paradigm
// pairs it is an identity pass-through: structural restructuring happens, if
// at all, inside the target's tree emitter. For paradigm-changing pairs where
// the target has no tree emitter, containers are downgraded to warning
// confidence so the report discloses that a text rewrite cannot restructure
// them; silence would misreport fidelity.
//
// Real cross-paradigm hook/suite regrouping inside the IR is intentionally
// not implemented here.
func transform(file *ir.TestFile, src, tgt *registry.Definition) []string {
	if src.Paradigm == tgt.Paradigm && strings.EqualFold(src.Language, tgt.Language) {
		return nil
	}
	if tgt.EmitTree != nil {
		// The tree emitter synthesizes target-paradigm structure; nothing to
		// flag at the container level.
		return nil
	}
	var warnings []string
	ir.Walk(file, func(n ir.Node) ir.WalkControl {
		switch n.Kind() {
		case ir.KindTestSuite, ir.KindTestCase, ir.KindHook:
			if n.Meta().Confidence == ir.ConfidenceConverted {
				n.Meta().Confidence = ir.ConfidenceWarning
			}
		}
		return ir.Continue
	})
	warnings = append(warnings, fmt.Sprintf(
		"paradigm change %s to %s is emitted as a text rewrite; container structure was not regrouped",
		src.Paradigm, tgt.Paradigm))
	return warnings
}
