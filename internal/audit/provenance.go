package audit

import (
	"time"

	"helix/internal/manifest"
)

// ExecutionEntry is one line of the per-target execution log.
type ExecutionEntry struct {
	PDBID     string `json:"pdb_id"`
	Status    string `json:"status"` // success or error
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// LockedParams records the frozen benchmark parameters for the run.
type LockedParams struct {
	Seed          int    `json:"seed"`
	Recycles      int    `json:"recycles"`
	SchemaVersion string `json:"schema_version"`
}

// ProvenanceRecord captures the full invocation behind a run: command
// line, configuration, timestamps, the integrity hashes verified at
// startup, and the per-target execution log.
type ProvenanceRecord struct {
	RunID        string               `json:"run_id"`
	JobType      string               `json:"job_type"`
	Version      string               `json:"version"`
	StartedAt    string               `json:"started_at"`
	FinishedAt   string               `json:"finished_at"`
	CommandLine  string               `json:"command_line"`
	Config       Config               `json:"configuration"`
	Locked       LockedParams         `json:"locked_parameters"`
	HashChecks   []manifest.HashCheck `json:"manifest_verification"`
	ExecutionLog []ExecutionEntry     `json:"execution_log"`
	Outputs      map[string]string    `json:"outputs,omitempty"`
}

// HasFullInvocation reports whether the record carries enough to replay
// the run: a command line and both timestamps.
func (p *ProvenanceRecord) HasFullInvocation() bool {
	return p.CommandLine != "" && p.StartedAt != "" && p.FinishedAt != ""
}

// stamp formats a provenance timestamp.
func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }
