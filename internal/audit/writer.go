package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Report file names within the output directory.
const (
	SummaryFile     = "SAR_SUMMARY.md"
	CalibrationFile = "calibration_report.json"
	ProvenanceFile  = "execution_provenance.json"
)

// calibrationDoc is the on-disk shape of the calibration report: the
// computed bins plus a generation timestamp and the fixed interpretation
// bands for readers of the raw JSON.
type calibrationDoc struct {
	CalibrationReport
	Generated      string            `json:"generated"`
	Interpretation map[string]string `json:"interpretation"`
}

var calibrationInterpretation = map[string]string{
	"high":   "Expected RMSD < 2.0Å - model highly confident and typically accurate",
	"medium": "Expected RMSD 1.5-4.0Å - model moderately confident with moderate accuracy",
	"low":    "Expected RMSD 3.0-8.0Å - model uncertain with higher expected error",
}

// WriteOutputs writes the per-target SAR files and the three compiled
// reports into cfg.OutputDir and records their paths in the result's
// provenance. SAR files are named <pdb_id>.json and appear only for
// targets that produced a SAR; errored slots are represented in the
// provenance execution log.
func WriteOutputs(cfg Config, r *RunResult) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, o := range r.Outcomes {
		if o.SAR == nil {
			continue
		}
		path := filepath.Join(cfg.OutputDir, o.PDBID+".json")
		if err := writeJSON(path, o.SAR); err != nil {
			return fmt.Errorf("write SAR %s: %w", o.PDBID, err)
		}
	}

	summaryPath := filepath.Join(cfg.OutputDir, SummaryFile)
	if err := os.WriteFile(summaryPath, []byte(FormatSummaryMarkdown(r)), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	calPath := filepath.Join(cfg.OutputDir, CalibrationFile)
	doc := calibrationDoc{
		CalibrationReport: r.Calibration,
		Generated:         r.Provenance.FinishedAt,
		Interpretation:    calibrationInterpretation,
	}
	if err := writeJSON(calPath, doc); err != nil {
		return fmt.Errorf("write calibration report: %w", err)
	}

	r.Provenance.Outputs = map[string]string{
		"sar_summary":          summaryPath,
		"calibration_report":   calPath,
		"execution_provenance": filepath.Join(cfg.OutputDir, ProvenanceFile),
	}

	provPath := filepath.Join(cfg.OutputDir, ProvenanceFile)
	if err := writeJSON(provPath, r.Provenance); err != nil {
		return fmt.Errorf("write provenance: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
