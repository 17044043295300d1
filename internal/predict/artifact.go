package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"helix/internal/audit"
	"helix/internal/manifest"
)

// ArtifactSource reads per-target prediction artifacts and ground-truth
// structures from disk and derives raw metrics. A missing or malformed
// file is a per-target error; the batch is never aborted from here.
type ArtifactSource struct {
	PredDir        string
	GroundTruthDir string
}

// NewArtifactSource returns an ArtifactSource over the given directories.
func NewArtifactSource(predDir, gtDir string) *ArtifactSource {
	return &ArtifactSource{PredDir: predDir, GroundTruthDir: gtDir}
}

func (a *ArtifactSource) Name() string { return "artifacts" }

// predictionArtifact is the on-disk shape of one prediction output.
// Ligand-pocket RMSD and contact overlap are computed upstream by the
// geometry library and carried in the artifact when applicable.
type predictionArtifact struct {
	PDBID             string      `json:"pdb_id"`
	Coordinates       [][]float64 `json:"coordinates"`
	PLDDT             []float64   `json:"plddt"`
	PAE               [][]float64 `json:"pae"`
	RMSDLigandPocket  *float64    `json:"rmsd_ligand_pocket,omitempty"`
	ContactMapOverlap *float64    `json:"contact_map_overlap,omitempty"`
	ModelVersion      string      `json:"model_version"`
	Seed              int         `json:"seed"`
	Recycles          int         `json:"recycles"`
	StubOutput        bool        `json:"stub_output"`
}

type groundTruth struct {
	PDBID       string      `json:"pdb_id"`
	Coordinates [][]float64 `json:"coordinates"`
}

// Metrics loads the target's prediction and reference structure and
// computes the raw metric set.
func (a *ArtifactSource) Metrics(_ context.Context, t manifest.Target) (audit.RawMetrics, audit.ModelInfo, error) {
	var pred predictionArtifact
	predPath := filepath.Join(a.PredDir, t.PDBID+"_prediction.json")
	if err := readJSON(predPath, &pred); err != nil {
		return audit.RawMetrics{}, audit.ModelInfo{}, fmt.Errorf("prediction for %s: %w", t.PDBID, err)
	}
	if len(pred.PLDDT) == 0 {
		return audit.RawMetrics{}, audit.ModelInfo{}, fmt.Errorf("prediction for %s carries no pLDDT scores", t.PDBID)
	}

	var gt groundTruth
	gtPath := filepath.Join(a.GroundTruthDir, t.PDBID+"_ground_truth.json")
	if err := readJSON(gtPath, &gt); err != nil {
		return audit.RawMetrics{}, audit.ModelInfo{}, fmt.Errorf("ground truth for %s: %w", t.PDBID, err)
	}

	rmsd, err := RMSD(pred.Coordinates, gt.Coordinates)
	if err != nil {
		return audit.RawMetrics{}, audit.ModelInfo{}, fmt.Errorf("rmsd for %s: %w", t.PDBID, err)
	}

	ligand := audit.NA()
	if t.LigandPresent && pred.RMSDLigandPocket != nil {
		ligand = audit.Some(*pred.RMSDLigandPocket)
	}
	contact := audit.NA()
	if pred.ContactMapOverlap != nil {
		contact = audit.Some(*pred.ContactMapOverlap)
	}

	raw := audit.RawMetrics{
		RMSDGlobal:     rmsd,
		RMSDLigand:     ligand,
		ContactOverlap: contact,
		PLDDTMean:      mean(pred.PLDDT),
		PAEMean:        matrixMean(pred.PAE),
	}
	model := audit.ModelInfo{
		ModelVersion: pred.ModelVersion,
		Seed:         pred.Seed,
		Recycles:     pred.Recycles,
		StubOutput:   pred.StubOutput,
	}
	return raw, model, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func matrixMean(rows [][]float64) float64 {
	sum, n := 0.0, 0
	for _, row := range rows {
		for _, v := range row {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
