package audit

import (
	"fmt"
	"strings"
)

// FieldSpec describes one required SAR field: its name, a presence check,
// and an optional validity check run only when the field is present.
type FieldSpec struct {
	Name    string
	Present func(*SAR) bool
	Valid   func(*SAR) bool
}

// sarSchema is the required-field schema for a complete SAR. The three
// top-level required fields are expected_error_range, recommended_action,
// and decision_gate; the error range additionally requires its subfields.
var sarSchema = []FieldSpec{
	{
		Name:    "expected_error_range",
		Present: func(s *SAR) bool { return s.ExpectedError != nil },
	},
	{
		Name:    "expected_error_range.rmsd_max",
		Present: func(s *SAR) bool { return s.ExpectedError != nil && s.ExpectedError.RMSDMax > 0 },
	},
	{
		Name:    "expected_error_range.rationale",
		Present: func(s *SAR) bool { return s.ExpectedError != nil && s.ExpectedError.Rationale != "" },
	},
	{
		Name:    "recommended_action",
		Present: func(s *SAR) bool { return s.RecommendedAction != "" },
	},
	{
		Name:    "decision_gate",
		Present: func(s *SAR) bool { return s.DecisionGate != "" },
		Valid:   func(s *SAR) bool { return ValidGate(s.DecisionGate) },
	},
}

// CompletenessResult scores a SAR against the required-field schema.
type CompletenessResult struct {
	PDBID   string   `json:"pdb_id"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

// Complete reports whether no required field is missing or invalid.
func (r CompletenessResult) Complete() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

// CheckCompleteness evaluates a SAR against the required-field schema.
// Fields under a missing parent are not double-reported.
func CheckCompleteness(s *SAR) CompletenessResult {
	result := CompletenessResult{PDBID: s.PDBID}
	for _, spec := range sarSchema {
		if !spec.Present(s) {
			if parentMissing(result.Missing, spec.Name) {
				continue
			}
			result.Missing = append(result.Missing, spec.Name)
			continue
		}
		if spec.Valid != nil && !spec.Valid(s) {
			result.Invalid = append(result.Invalid, spec.Name)
		}
	}
	return result
}

func parentMissing(missing []string, name string) bool {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return false
	}
	parent := name[:dot]
	for _, m := range missing {
		if m == parent {
			return true
		}
	}
	return false
}

// IncompleteSARError is the completeness failure raised in strict mode.
// An invalid decision_gate value is a completeness failure regardless of
// mode; the assembler enforces that.
type IncompleteSARError struct {
	Result CompletenessResult
}

func (e *IncompleteSARError) Error() string {
	var parts []string
	for _, m := range e.Result.Missing {
		parts = append(parts, m)
	}
	for _, f := range e.Result.Invalid {
		parts = append(parts, f+" (invalid value)")
	}
	return fmt.Sprintf("ERROR_SAR_INCOMPLETE: %s: missing required fields: %s",
		e.Result.PDBID, strings.Join(parts, ", "))
}
