package audit

import (
	"fmt"

	"helix/internal/manifest"
)

// ClassifyInput is everything the failure classifier sees for one target.
type ClassifyInput struct {
	Metrics       RawMetrics
	Expected      manifest.ExpectedErrorRange
	LigandPresent bool
}

// classRule is one (predicate, result) pair of the failure taxonomy.
// Rules are evaluated top to bottom and the first match wins; the order is
// part of the contract, because predicates are not mutually exclusive.
type classRule struct {
	class FailureClass
	// applies reports whether this rule is evaluated at all for the
	// input (a skipped rule is not "false" — it does not exist).
	applies func(ClassifyInput) bool
	match   func(ClassifyInput) bool
	detail  func(ClassifyInput) string
}

func always(ClassifyInput) bool { return true }

// classRules is the ordered failure taxonomy. Overconfidence (A) outranks
// symmetry (C): a target matching both is labeled A.
var classRules = []classRule{
	{
		class:   ClassA,
		applies: always,
		match: func(in ClassifyInput) bool {
			return in.Metrics.PLDDTMean > 90 &&
				in.Metrics.PAEMean < 5 &&
				in.Metrics.RMSDGlobal > in.Expected.RMSDMax*1.5
		},
		detail: func(in ClassifyInput) string {
			return fmt.Sprintf("Overconfidence artifact: high model confidence (pLDDT=%.1f, PAE=%.1f) but RMSD=%.2fÅ exceeds expected range",
				in.Metrics.PLDDTMean, in.Metrics.PAEMean, in.Metrics.RMSDGlobal)
		},
	},
	{
		class: ClassB,
		// No ligand, no ligand metric: the rule is skipped entirely.
		applies: func(in ClassifyInput) bool {
			return in.LigandPresent && in.Metrics.RMSDLigand.Valid
		},
		match: func(in ClassifyInput) bool {
			return in.Metrics.RMSDLigand.Value > in.Metrics.RMSDGlobal*1.5
		},
		detail: func(in ClassifyInput) string {
			return fmt.Sprintf("Ligand pose failure: ligand pocket RMSD (%.2fÅ) significantly exceeds global RMSD (%.2fÅ)",
				in.Metrics.RMSDLigand.Value, in.Metrics.RMSDGlobal)
		},
	},
	{
		class:   ClassC,
		applies: always,
		match: func(in ClassifyInput) bool {
			return in.Metrics.RMSDGlobal > 10.0
		},
		detail: func(in ClassifyInput) string {
			return fmt.Sprintf("Potential symmetry/assembly failure: extremely high RMSD (%.2fÅ) suggests structural misalignment",
				in.Metrics.RMSDGlobal)
		},
	},
	{
		class:   ClassUnknown,
		applies: always,
		match: func(in ClassifyInput) bool {
			return in.Metrics.RMSDGlobal > in.Expected.RMSDMax
		},
		detail: func(in ClassifyInput) string {
			return fmt.Sprintf("Unmapped failure mode: RMSD=%.2fÅ exceeds expected range but doesn't match known failure patterns",
				in.Metrics.RMSDGlobal)
		},
	},
}

// Classify assigns exactly one failure class to a target. Evaluation walks
// the ordered rule table; the fall-through result is N/A (within expected
// error range).
func Classify(in ClassifyInput) FailureTaxonomy {
	for _, r := range classRules {
		if !r.applies(in) {
			continue
		}
		if r.match(in) {
			return FailureTaxonomy{Class: r.class, Description: r.detail(in)}
		}
	}
	return FailureTaxonomy{
		Class: ClassNA,
		Description: fmt.Sprintf("Prediction within expected error range (RMSD=%.2fÅ <= %.2fÅ)",
			in.Metrics.RMSDGlobal, in.Expected.RMSDMax),
	}
}

// DeriveExpectedRange maps an overall confidence bin to the default
// expected RMSD band. Used when the manifest entry does not lock a range
// for the target.
func DeriveExpectedRange(c Confidence) manifest.ExpectedErrorRange {
	switch c.Overall {
	case ConfidenceHigh:
		return manifest.ExpectedErrorRange{
			RMSDMin:   0.5,
			RMSDMax:   2.0,
			Rationale: "High confidence (pLDDT>90, PAE<5) suggests low expected error",
		}
	case ConfidenceMedium:
		return manifest.ExpectedErrorRange{
			RMSDMin:   1.5,
			RMSDMax:   4.0,
			Rationale: "Medium confidence suggests moderate expected error range",
		}
	default:
		return manifest.ExpectedErrorRange{
			RMSDMin:   3.0,
			RMSDMax:   8.0,
			Rationale: "Low confidence (pLDDT<70 or PAE>10) suggests high expected error",
		}
	}
}
