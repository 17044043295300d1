package predict

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"helix/internal/manifest"
)

func TestRMSD(t *testing.T) {
	tests := []struct {
		name string
		pred [][]float64
		ref  [][]float64
		want float64
	}{
		{
			name: "identical",
			pred: [][]float64{{1, 2, 3}, {4, 5, 6}},
			ref:  [][]float64{{1, 2, 3}, {4, 5, 6}},
			want: 0,
		},
		{
			name: "unit offset",
			pred: [][]float64{{1, 0, 0}},
			ref:  [][]float64{{0, 0, 0}},
			want: 1,
		},
		{
			name: "common prefix",
			pred: [][]float64{{0, 0, 0}, {3, 4, 0}, {9, 9, 9}},
			ref:  [][]float64{{0, 0, 0}, {0, 0, 0}},
			want: math.Sqrt(25.0 / 2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RMSD(tt.pred, tt.ref)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RMSD = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSDEmpty(t *testing.T) {
	if _, err := RMSD(nil, [][]float64{{0, 0, 0}}); err == nil {
		t.Error("expected error on empty prediction set")
	}
}

func writeArtifact(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestArtifactSourceMetrics(t *testing.T) {
	predDir := t.TempDir()
	gtDir := t.TempDir()

	ligRMSD := 2.5
	overlap := 0.8
	writeArtifact(t, predDir, "1ATP_prediction.json", predictionArtifact{
		PDBID:             "1ATP",
		Coordinates:       [][]float64{{1, 0, 0}, {0, 1, 0}},
		PLDDT:             []float64{90, 94},
		PAE:               [][]float64{{2, 4}, {4, 2}},
		RMSDLigandPocket:  &ligRMSD,
		ContactMapOverlap: &overlap,
		ModelVersion:      "af3_v2",
		Seed:              42,
		Recycles:          3,
	})
	writeArtifact(t, gtDir, "1ATP_ground_truth.json", groundTruth{
		PDBID:       "1ATP",
		Coordinates: [][]float64{{0, 0, 0}, {0, 0, 0}},
	})

	src := NewArtifactSource(predDir, gtDir)
	raw, model, err := src.Metrics(context.Background(), manifest.Target{PDBID: "1ATP", LigandPresent: true})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(raw.RMSDGlobal-1) > 1e-9 {
		t.Errorf("RMSDGlobal = %v, want 1", raw.RMSDGlobal)
	}
	if math.Abs(raw.PLDDTMean-92) > 1e-9 {
		t.Errorf("PLDDTMean = %v, want 92", raw.PLDDTMean)
	}
	if math.Abs(raw.PAEMean-3) > 1e-9 {
		t.Errorf("PAEMean = %v, want 3", raw.PAEMean)
	}
	if !raw.RMSDLigand.Valid || raw.RMSDLigand.Value != 2.5 {
		t.Errorf("RMSDLigand = %v, want 2.5", raw.RMSDLigand)
	}
	if model.ModelVersion != "af3_v2" || model.Seed != 42 || model.Recycles != 3 {
		t.Errorf("model info = %+v", model)
	}
	if model.StubOutput {
		t.Error("artifact source flagged as stub output")
	}
}

func TestArtifactSourceLigandNA(t *testing.T) {
	predDir := t.TempDir()
	gtDir := t.TempDir()

	ligRMSD := 2.5
	writeArtifact(t, predDir, "1APO_prediction.json", predictionArtifact{
		PDBID:            "1APO",
		Coordinates:      [][]float64{{0, 0, 0}},
		PLDDT:            []float64{80},
		RMSDLigandPocket: &ligRMSD,
	})
	writeArtifact(t, gtDir, "1APO_ground_truth.json", groundTruth{
		Coordinates: [][]float64{{0, 0, 0}},
	})

	src := NewArtifactSource(predDir, gtDir)
	raw, _, err := src.Metrics(context.Background(), manifest.Target{PDBID: "1APO", LigandPresent: false})
	if err != nil {
		t.Fatal(err)
	}
	if raw.RMSDLigand.Valid {
		t.Error("apo target carries ligand-pocket RMSD")
	}
	if raw.ContactOverlap.Valid {
		t.Error("missing contact overlap not marked N/A")
	}
}

func TestArtifactSourceMissingFiles(t *testing.T) {
	predDir := t.TempDir()
	gtDir := t.TempDir()
	src := NewArtifactSource(predDir, gtDir)

	if _, _, err := src.Metrics(context.Background(), manifest.Target{PDBID: "9XYZ"}); err == nil {
		t.Error("expected error for missing prediction artifact")
	}

	writeArtifact(t, predDir, "9XYZ_prediction.json", predictionArtifact{
		Coordinates: [][]float64{{0, 0, 0}},
		PLDDT:       []float64{70},
	})
	if _, _, err := src.Metrics(context.Background(), manifest.Target{PDBID: "9XYZ"}); err == nil {
		t.Error("expected error for missing ground truth")
	}
}
