package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleManifest = `{
  "version": "1.0",
  "created": "2026-02-08T10:59:00Z",
  "scope": "Kinase Reliability Pilot - Accepted Targets",
  "targets": [
    {"pdb_id": "8ABC", "resolution": 1.8, "ligand_present": true},
    {"pdb_id": "8DEF", "resolution": 2.0, "ligand_present": true,
     "expected_error_range": {"rmsd_min": 0.5, "rmsd_max": 2.0, "rationale": "high-confidence band"}},
    {"pdb_id": "8GHI", "resolution": 1.9, "ligand_present": false}
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accepted.json")
	if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_PreservesOrder(t *testing.T) {
	m, err := Load(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"8ABC", "8DEF", "8GHI"}
	if len(m.Targets) != len(want) {
		t.Fatalf("got %d targets, want %d", len(m.Targets), len(want))
	}
	for i, id := range want {
		if m.Targets[i].PDBID != id {
			t.Errorf("target %d = %s, want %s", i, m.Targets[i].PDBID, id)
		}
	}
	if m.Targets[1].ExpectedError == nil || m.Targets[1].ExpectedError.RMSDMax != 2.0 {
		t.Error("expected_error_range not parsed for 8DEF")
	}
	if m.Targets[0].ExpectedError != nil {
		t.Error("8ABC should have no expected_error_range")
	}
}

func TestLoad_RejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.json")
	data := `{"version":"1.0","targets":[{"pdb_id":"8ABC"},{"pdb_id":"8ABC"}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected duplicate pdb_id error")
	}
}

func TestLoad_RejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"version":"1.0","targets":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected empty manifest error")
	}
}

func TestVerify(t *testing.T) {
	path := writeSample(t)

	actual, err := FileHash(path)
	if err != nil {
		t.Fatal(err)
	}

	check, err := Verify(path, actual)
	if err != nil {
		t.Fatal(err)
	}
	if !check.Match {
		t.Error("matching hash should verify")
	}

	check, err = Verify(path, "deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	if check.Match {
		t.Error("mismatched hash should not verify")
	}
	if check.Actual != actual {
		t.Errorf("actual hash not recorded: %s", check.Actual)
	}
}

func TestVerify_EmptyExpectedPasses(t *testing.T) {
	check, err := Verify(writeSample(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if !check.Match {
		t.Error("empty expected hash should pass with actual recorded")
	}
	if check.Actual == "" {
		t.Error("actual hash should still be recorded")
	}
}
