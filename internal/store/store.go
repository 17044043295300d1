package store

import "helix/internal/audit"

// DefaultDBPath is the default relative path for the SQLite run archive.
// Resolve against cwd; Open() creates the parent dir (.helix).
const DefaultDBPath = ".helix/helix.db"

// RunSummary is one archived run as listed by history queries.
type RunSummary struct {
	ID       int64
	RunID    string
	Status   string
	Targets  int
	WithSAR  int
	Errored  int
	Started  string
	Finished string
}

// Store is the run archive facade. The CLI uses only this interface;
// implementation is SQLite or in-memory.
type Store interface {
	// SaveRun archives a completed run with its full result document.
	SaveRun(r *audit.RunResult) (runID int64, err error)
	// ListRuns returns archived runs, newest first.
	ListRuns() ([]*RunSummary, error)
	// GetRun returns the full result of one archived run by its run label.
	GetRun(runID string) (*audit.RunResult, error)
	// GetSAR returns one archived SAR by run label and target id.
	GetSAR(runID, pdbID string) (*audit.SAR, error)
	Close() error
}
