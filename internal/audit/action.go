package audit

import "fmt"

// RecommendAction produces the non-empty recommended_action text for a SAR
// from the decision gate and failure taxonomy.
func RecommendAction(gate DecisionGate, failure FailureTaxonomy, pdbID string) string {
	switch gate {
	case GateAccept:
		return fmt.Sprintf("Structure %s passes quality criteria. Proceed with downstream analysis.", pdbID)

	case GateReview:
		switch failure.Class {
		case ClassB:
			return fmt.Sprintf("Manual review recommended for %s: ligand binding pose shows elevated error. Verify active site geometry and ligand interactions.", pdbID)
		case ClassUnknown:
			return fmt.Sprintf("Manual review required for %s: elevated error detected but failure mode unclear. Expert structural analysis needed.", pdbID)
		default:
			return fmt.Sprintf("Manual review recommended for %s: %s", pdbID, failure.Description)
		}

	default: // REJECT
		switch failure.Class {
		case ClassA:
			return fmt.Sprintf("Reject %s: overconfidence artifact detected. Model confidence metrics unreliable for this target. Consider alternative modeling approaches.", pdbID)
		case ClassC:
			return fmt.Sprintf("Reject %s: potential symmetry/assembly failure. Verify oligomeric state and symmetry operators before use.", pdbID)
		default:
			return fmt.Sprintf("Reject %s: error exceeds acceptable thresholds. Do not use for downstream analysis without significant refinement.", pdbID)
		}
	}
}
