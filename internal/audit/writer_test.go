package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteOutputs(t *testing.T) {
	r := Compile(compileFixture())
	cfg := Config{OutputDir: filepath.Join(t.TempDir(), "reports")}

	if err := WriteOutputs(cfg, r); err != nil {
		t.Fatal(err)
	}

	// One SAR file per successful target, none for the errored slot.
	for _, id := range []string{"H1", "M1", "L1"} {
		path := filepath.Join(cfg.OutputDir, id+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("SAR file %s: %v", id, err)
		}
		var sar SAR
		if err := json.Unmarshal(data, &sar); err != nil {
			t.Fatalf("SAR file %s: %v", id, err)
		}
		if sar.PDBID != id {
			t.Errorf("SAR file %s holds %s", id, sar.PDBID)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "E1.json")); !os.IsNotExist(err) {
		t.Error("errored target got a SAR file")
	}

	for _, name := range []string{SummaryFile, CalibrationFile, ProvenanceFile} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("report %s: %v", name, err)
		}
	}

	if len(r.Provenance.Outputs) != 3 {
		t.Errorf("provenance outputs = %v", r.Provenance.Outputs)
	}
}

func TestWriteOutputsCalibrationDoc(t *testing.T) {
	r := Compile(compileFixture())
	cfg := Config{OutputDir: t.TempDir()}
	if err := WriteOutputs(cfg, r); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, CalibrationFile))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"calibration_data", "total_targets", "generated", "interpretation"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("calibration report missing %q", key)
		}
	}
}

func TestScalarJSONRoundTrip(t *testing.T) {
	// Not-applicable metrics serialize as the "N/A" sentinel, not null.
	data, err := json.Marshal(RawMetrics{RMSDGlobal: 1.5, RMSDLigand: NA(), ContactOverlap: Some(0.8)})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"rmsd_ligand_pocket":"N/A"`) {
		t.Errorf("payload = %s", data)
	}

	var m RawMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.RMSDLigand.Valid {
		t.Error("N/A unmarshaled as a value")
	}
	if !m.ContactOverlap.Valid || m.ContactOverlap.Value != 0.8 {
		t.Errorf("contact overlap = %+v", m.ContactOverlap)
	}
}
