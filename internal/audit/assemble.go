package audit

import (
	"log/slog"

	"helix/internal/logging"
	"helix/internal/manifest"
)

// Assembler builds per-target SARs and enforces the required-field schema.
// In strict mode an incomplete SAR is a failure for that target; in lenient
// mode it is logged and the partial SAR is emitted anyway. An invalid
// decision_gate enum value fails in both modes.
type Assembler struct {
	SchemaVersion string
	Strict        bool

	log *slog.Logger
}

// NewAssembler returns an Assembler for the given schema version and mode.
func NewAssembler(schemaVersion string, strict bool) *Assembler {
	return &Assembler{
		SchemaVersion: schemaVersion,
		Strict:        strict,
		log:           logging.New("assemble"),
	}
}

// Assemble builds the SAR record for one target and validates it. On a
// completeness failure the returned error is an *IncompleteSARError; in
// lenient mode the partial SAR is returned alongside a nil error unless
// the decision gate itself is invalid.
func (a *Assembler) Assemble(
	t manifest.Target,
	raw RawMetrics,
	conf Confidence,
	expected *manifest.ExpectedErrorRange,
	failure FailureTaxonomy,
	gate DecisionGate,
	action string,
	model ModelInfo,
) (*SAR, error) {
	sar := &SAR{
		PDBID:             t.PDBID,
		SchemaVersion:     a.SchemaVersion,
		Metrics:           raw,
		Confidence:        conf,
		ExpectedError:     expected,
		RecommendedAction: action,
		DecisionGate:      gate,
		Failure:           failure,
		Provenance:        model,
	}

	result := CheckCompleteness(sar)
	if result.Complete() {
		return sar, nil
	}

	err := &IncompleteSARError{Result: result}

	// A malformed gate enum is never emitted, strict or not.
	if len(result.Invalid) > 0 {
		return nil, err
	}
	if a.Strict {
		return nil, err
	}

	a.log.Warn("emitting incomplete SAR",
		"pdb_id", t.PDBID, "missing", result.Missing)
	return sar, nil
}
