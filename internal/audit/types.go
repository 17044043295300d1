// Package audit implements the SAR generation and decision engine: the
// deterministic pipeline stage that turns raw geometric and confidence
// metrics into a failure-taxonomy label, a decision gate, a validated
// Structural Audit Report, and a run-wide calibration summary.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"helix/internal/manifest"
)

// Scalar is a float metric that may be "not applicable" (e.g. ligand-pocket
// RMSD for an apo structure). It marshals as a number when applicable and
// as the literal string "N/A" otherwise.
type Scalar struct {
	Value float64
	Valid bool
}

// Some returns an applicable Scalar holding v.
func Some(v float64) Scalar { return Scalar{Value: v, Valid: true} }

// NA returns the "not applicable" Scalar.
func NA() Scalar { return Scalar{} }

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(s.Value)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte(`"N/A"`)) || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Scalar{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("scalar: %w", err)
	}
	*s = Scalar{Value: v, Valid: true}
	return nil
}

func (s Scalar) String() string {
	if !s.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", s.Value)
}

// RawMetrics holds the per-target geometric and confidence metrics supplied
// by the metric source. Produced once per target, never mutated afterward.
type RawMetrics struct {
	RMSDGlobal     float64 `json:"rmsd_global"`
	RMSDLigand     Scalar  `json:"rmsd_ligand_pocket"`
	ContactOverlap Scalar  `json:"contact_map_overlap"`
	PLDDTMean      float64 `json:"plddt_mean"`
	PAEMean        float64 `json:"pae_mean"`
}

// ConfidenceBin is a categorical confidence level.
type ConfidenceBin string

const (
	ConfidenceHigh   ConfidenceBin = "high"
	ConfidenceMedium ConfidenceBin = "medium"
	ConfidenceLow    ConfidenceBin = "low"
)

// ConfidenceBins enumerates all bins in display order.
var ConfidenceBins = []ConfidenceBin{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}

// Confidence is the per-target confidence assessment: separate pLDDT and
// PAE bins plus the overall bin derived from both.
type Confidence struct {
	PLDDTBin ConfidenceBin `json:"plddt_bin"`
	PAEBin   ConfidenceBin `json:"pae_bin"`
	Overall  ConfidenceBin `json:"overall_confidence"`
}

// AssessConfidence bins a prediction's confidence metrics. Pure function of
// RawMetrics: pLDDT >90 high, >70 medium, else low; PAE <5 high, <10
// medium, else low. Overall is high only when both are high, low when
// either is low, medium otherwise.
func AssessConfidence(m RawMetrics) Confidence {
	var c Confidence

	switch {
	case m.PLDDTMean > 90:
		c.PLDDTBin = ConfidenceHigh
	case m.PLDDTMean > 70:
		c.PLDDTBin = ConfidenceMedium
	default:
		c.PLDDTBin = ConfidenceLow
	}

	switch {
	case m.PAEMean < 5:
		c.PAEBin = ConfidenceHigh
	case m.PAEMean < 10:
		c.PAEBin = ConfidenceMedium
	default:
		c.PAEBin = ConfidenceLow
	}

	switch {
	case c.PLDDTBin == ConfidenceHigh && c.PAEBin == ConfidenceHigh:
		c.Overall = ConfidenceHigh
	case c.PLDDTBin == ConfidenceLow || c.PAEBin == ConfidenceLow:
		c.Overall = ConfidenceLow
	default:
		c.Overall = ConfidenceMedium
	}

	return c
}

// FailureClass labels why a prediction failed.
type FailureClass string

const (
	ClassNA      FailureClass = "N/A"     // within expected error range
	ClassA       FailureClass = "A"       // overconfidence artifact
	ClassB       FailureClass = "B"       // ligand pose failure
	ClassC       FailureClass = "C"       // symmetry/assembly failure
	ClassUnknown FailureClass = "Unknown" // exceeds expectation, no known pattern
)

// FailureClasses enumerates the full taxonomy in display order. Summary
// tables emit a row for every class, including zero counts.
var FailureClasses = []FailureClass{ClassNA, ClassA, ClassB, ClassC, ClassUnknown}

// FailureTaxonomy pairs the class label with a per-target description.
type FailureTaxonomy struct {
	Class       FailureClass `json:"class"`
	Description string       `json:"description"`
}

// DecisionGate is the three-way verdict governing downstream usability.
type DecisionGate string

const (
	GateAccept DecisionGate = "ACCEPT"
	GateReview DecisionGate = "REVIEW"
	GateReject DecisionGate = "REJECT"
)

// DecisionGates enumerates the gates in display order.
var DecisionGates = []DecisionGate{GateAccept, GateReview, GateReject}

// ValidGate reports whether g is exactly one of the three enum literals.
// The comparison is case-sensitive.
func ValidGate(g DecisionGate) bool {
	return g == GateAccept || g == GateReview || g == GateReject
}

// ModelInfo is the metric-source provenance carried into each SAR.
type ModelInfo struct {
	ModelVersion string `json:"model_version"`
	Seed         int    `json:"seed"`
	Recycles     int    `json:"recycles"`
	StubOutput   bool   `json:"stub_output"`
}

// SAR is the per-target Structural Audit Report. Assembled once per target
// and immutable afterward. It deliberately carries no timestamp: identical
// inputs produce byte-identical SAR files, and run timing lives in the
// provenance record instead.
type SAR struct {
	PDBID             string                       `json:"pdb_id"`
	SchemaVersion     string                       `json:"sar_version"`
	Metrics           RawMetrics                   `json:"metrics"`
	Confidence        Confidence                   `json:"confidence_assessment"`
	ExpectedError     *manifest.ExpectedErrorRange `json:"expected_error_range"`
	RecommendedAction string                       `json:"recommended_action"`
	DecisionGate      DecisionGate                 `json:"decision_gate"`
	Failure           FailureTaxonomy              `json:"failure_taxonomy"`
	Provenance        ModelInfo                    `json:"provenance"`
}

// TargetOutcome is one ordered slot in the run: either a SAR or a recorded
// per-target error. A slot with an error still counts as processed.
type TargetOutcome struct {
	PDBID string `json:"pdb_id"`
	SAR   *SAR   `json:"sar,omitempty"`
	Error string `json:"error,omitempty"`
}

// CountRow is one row of a gate or class count table.
type CountRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary aggregates decision-gate and failure-class counts across the run.
// Both tables carry a row per enum value, zero counts included, so the
// taxonomy is always visible in full.
type Summary struct {
	Total     int        `json:"total_targets"`
	WithSAR   int        `json:"targets_with_sar"`
	Errored   int        `json:"targets_errored"`
	Gates     []CountRow `json:"decision_gates"`
	Classes   []CountRow `json:"failure_classes"`
}

// RubricCheck is one named pass/fail criterion of the final gate rubric.
type RubricCheck struct {
	Name   string `json:"name"`
	Pass   bool   `json:"pass"`
	Detail string `json:"detail"`
}

// RunResult is the top-level aggregate for a completed run. Immutable once
// compiled.
type RunResult struct {
	RunID       string            `json:"run_id"`
	Status      string            `json:"status"` // PASS or FAIL
	Checks      []RubricCheck     `json:"checks"`
	Outcomes    []TargetOutcome   `json:"outcomes"`
	Summary     Summary           `json:"summary"`
	Calibration CalibrationReport `json:"calibration"`
	Provenance  ProvenanceRecord  `json:"provenance"`
}

// FailingChecks returns the names of rubric checks that did not pass.
func (r *RunResult) FailingChecks() []string {
	var out []string
	for _, c := range r.Checks {
		if !c.Pass {
			out = append(out, c.Name)
		}
	}
	return out
}
