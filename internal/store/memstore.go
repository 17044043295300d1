package store

import (
	"fmt"
	"sync"

	"helix/internal/audit"
)

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu   sync.Mutex
	next int64
	runs []archived
}

type archived struct {
	id     int64
	result *audit.RunResult
}

// NewMemStore returns an empty in-memory archive.
func NewMemStore() *MemStore { return &MemStore{next: 1} }

func (m *MemStore) SaveRun(r *audit.RunResult) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.runs = append(m.runs, archived{id: id, result: r})
	return id, nil
}

func (m *MemStore) ListRuns() ([]*RunSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*RunSummary, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		a := m.runs[i]
		out = append(out, &RunSummary{
			ID:       a.id,
			RunID:    a.result.RunID,
			Status:   a.result.Status,
			Targets:  a.result.Summary.Total,
			WithSAR:  a.result.Summary.WithSAR,
			Errored:  a.result.Summary.Errored,
			Started:  a.result.Provenance.StartedAt,
			Finished: a.result.Provenance.FinishedAt,
		})
	}
	return out, nil
}

func (m *MemStore) GetRun(runID string) (*audit.RunResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].result.RunID == runID {
			return m.runs[i].result, nil
		}
	}
	return nil, fmt.Errorf("run %q not found", runID)
}

func (m *MemStore) GetSAR(runID, pdbID string) (*audit.SAR, error) {
	r, err := m.GetRun(runID)
	if err != nil {
		return nil, err
	}
	for _, o := range r.Outcomes {
		if o.PDBID == pdbID && o.SAR != nil {
			return o.SAR, nil
		}
	}
	return nil, fmt.Errorf("SAR %s/%s not found", runID, pdbID)
}

func (m *MemStore) Close() error { return nil }
