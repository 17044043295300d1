package audit

import (
	"fmt"
	"strings"
	"time"

	"helix/internal/manifest"
)

// Summarize counts decision gates and failure classes across the run.
// Every enum value gets a row, zero counts included.
func Summarize(outcomes []TargetOutcome) Summary {
	gateCounts := make(map[DecisionGate]int)
	classCounts := make(map[FailureClass]int)

	s := Summary{Total: len(outcomes)}
	for i := range outcomes {
		if outcomes[i].SAR == nil {
			s.Errored++
			continue
		}
		s.WithSAR++
		gateCounts[outcomes[i].SAR.DecisionGate]++
		classCounts[outcomes[i].SAR.Failure.Class]++
	}

	for _, g := range DecisionGates {
		s.Gates = append(s.Gates, CountRow{Label: string(g), Count: gateCounts[g]})
	}
	for _, c := range FailureClasses {
		s.Classes = append(s.Classes, CountRow{Label: string(c), Count: classCounts[c]})
	}
	return s
}

// CompileInput is everything the run compiler consumes.
type CompileInput struct {
	Config      Config
	Manifest    *manifest.Manifest
	Outcomes    []TargetOutcome
	HashChecks  []manifest.HashCheck
	CommandLine string
	Started     time.Time
	Finished    time.Time
}

// Compile aggregates all target outcomes into the final RunResult: summary
// counts, the calibration report, the provenance record, and the five-check
// gate rubric. The run status is PASS iff every check passes; failing
// checks stay enumerated in the result, never reduced to a bare boolean.
func Compile(in CompileInput) *RunResult {
	summary := Summarize(in.Outcomes)
	calibration := Calibrate(in.Config.SchemaVersion, in.Outcomes)
	provenance := buildProvenance(in)

	checks := []RubricCheck{
		integrityCheck(in.HashChecks),
		completenessCheck(in.Manifest, in.Outcomes),
		validityCheck(in.Outcomes),
		CalibrationCheck(calibration),
		provenanceCheck(&provenance),
	}

	status := "PASS"
	for _, c := range checks {
		if !c.Pass {
			status = "FAIL"
			break
		}
	}

	return &RunResult{
		RunID:       in.Config.RunID,
		Status:      status,
		Checks:      checks,
		Outcomes:    in.Outcomes,
		Summary:     summary,
		Calibration: calibration,
		Provenance:  provenance,
	}
}

func integrityCheck(checks []manifest.HashCheck) RubricCheck {
	var failed []string
	for _, c := range checks {
		if !c.Match {
			failed = append(failed, c.Path)
		}
	}
	if len(failed) > 0 {
		return RubricCheck{
			Name:   "Integrity",
			Pass:   false,
			Detail: "hash mismatch: " + strings.Join(failed, ", "),
		}
	}
	return RubricCheck{
		Name:   "Integrity",
		Pass:   true,
		Detail: fmt.Sprintf("%d verified artifact hashes match authorized values", len(checks)),
	}
}

// completenessCheck requires a slot for every manifest target. A slot with
// a logged per-target error still counts as processed, not missing.
func completenessCheck(man *manifest.Manifest, outcomes []TargetOutcome) RubricCheck {
	slots := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		slots[o.PDBID] = true
	}
	var missing []string
	for _, t := range man.Targets {
		if !slots[t.PDBID] {
			missing = append(missing, t.PDBID)
		}
	}
	if len(missing) > 0 {
		return RubricCheck{
			Name:   "Completeness",
			Pass:   false,
			Detail: fmt.Sprintf("%d/%d targets processed; missing: %s", len(outcomes), len(man.Targets), strings.Join(missing, ", ")),
		}
	}
	return RubricCheck{
		Name:   "Completeness",
		Pass:   true,
		Detail: fmt.Sprintf("%d/%d targets processed", len(outcomes), len(man.Targets)),
	}
}

func validityCheck(outcomes []TargetOutcome) RubricCheck {
	var invalid []string
	present := 0
	for _, o := range outcomes {
		if o.SAR == nil {
			continue
		}
		present++
		if !ValidGate(o.SAR.DecisionGate) {
			invalid = append(invalid, o.PDBID)
		}
	}
	if len(invalid) > 0 {
		return RubricCheck{
			Name:   "SAR Validity",
			Pass:   false,
			Detail: "missing or invalid decision_gate: " + strings.Join(invalid, ", "),
		}
	}
	return RubricCheck{
		Name:   "SAR Validity",
		Pass:   true,
		Detail: fmt.Sprintf("all %d SARs carry a valid decision_gate", present),
	}
}

func provenanceCheck(p *ProvenanceRecord) RubricCheck {
	if !p.HasFullInvocation() {
		return RubricCheck{
			Name:   "Provenance",
			Pass:   false,
			Detail: "provenance record lacks the full invocation",
		}
	}
	return RubricCheck{
		Name:   "Provenance",
		Pass:   true,
		Detail: "provenance record includes full invocation and timestamps",
	}
}

func buildProvenance(in CompileInput) ProvenanceRecord {
	log := make([]ExecutionEntry, 0, len(in.Outcomes))
	for _, o := range in.Outcomes {
		e := ExecutionEntry{PDBID: o.PDBID, Status: "success", Timestamp: stamp(in.Finished)}
		if o.SAR == nil {
			e.Status = "error"
			e.Error = o.Error
		}
		log = append(log, e)
	}

	return ProvenanceRecord{
		RunID:       in.Config.RunID,
		JobType:     "audit",
		Version:     in.Config.SchemaVersion,
		StartedAt:   stamp(in.Started),
		FinishedAt:  stamp(in.Finished),
		CommandLine: in.CommandLine,
		Config:      in.Config,
		Locked: LockedParams{
			Seed:          LockedSeed,
			Recycles:      LockedRecycles,
			SchemaVersion: in.Config.SchemaVersion,
		},
		HashChecks:   in.HashChecks,
		ExecutionLog: log,
	}
}
