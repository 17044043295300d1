// Package manifest loads and verifies the benchmark manifests that define
// an audit run. The accepted manifest carries the ordered target list;
// both the accepted and rejected manifests are hash-locked and must match
// their authorized SHA-256 values before any target is processed.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ExpectedErrorRange is the per-target RMSD band the prediction is expected
// to land in, with a human-readable rationale.
type ExpectedErrorRange struct {
	RMSDMin   float64 `json:"rmsd_min"`
	RMSDMax   float64 `json:"rmsd_max"`
	Rationale string  `json:"rationale"`
}

// Target is one benchmark entry. Order within the manifest is semantically
// significant and must be preserved end to end.
type Target struct {
	PDBID         string  `json:"pdb_id"`
	Resolution    float64 `json:"resolution"`
	Method        string  `json:"method,omitempty"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	LigandPresent bool    `json:"ligand_present"`
	KinaseFamily  string  `json:"kinase_family,omitempty"`
	Description   string  `json:"description,omitempty"`

	// Optional; when absent the engine derives a range from the
	// prediction's confidence bin.
	ExpectedError *ExpectedErrorRange `json:"expected_error_range,omitempty"`
}

// Manifest is the ordered, hash-locked benchmark definition.
type Manifest struct {
	Version  string         `json:"version"`
	Created  string         `json:"created"`
	Scope    string         `json:"scope"`
	Criteria map[string]any `json:"inclusion_criteria,omitempty"`
	Targets  []Target       `json:"targets"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Targets) == 0 {
		return nil, fmt.Errorf("manifest %s contains no targets", path)
	}
	seen := make(map[string]bool, len(m.Targets))
	for i, t := range m.Targets {
		if t.PDBID == "" {
			return nil, fmt.Errorf("manifest %s: target %d has no pdb_id", path, i)
		}
		if seen[t.PDBID] {
			return nil, fmt.Errorf("manifest %s: duplicate target %s", path, t.PDBID)
		}
		seen[t.PDBID] = true
	}
	return &m, nil
}

// FileHash computes the SHA-256 hash of a file as a lowercase hex string.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// HashCheck records one integrity verification against an authorized hash.
type HashCheck struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Match    bool   `json:"match"`
}

// Verify hashes the file at path and compares against the authorized value.
// An empty expected hash means the check is unenforced and passes with the
// actual hash recorded for provenance.
func Verify(path, expected string) (HashCheck, error) {
	actual, err := FileHash(path)
	if err != nil {
		return HashCheck{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return HashCheck{
		Path:     path,
		Expected: expected,
		Actual:   actual,
		Match:    expected == "" || actual == expected,
	}, nil
}
