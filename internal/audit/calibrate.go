package audit

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CalibrationBin summarizes prediction error for all SARs sharing an
// overall confidence bin.
//
// Error convention: Error fields compare rmsd_global against the target's
// expected_error_range.rmsd_max. MeanError is signed (positive = worse
// than expected), MeanAbsError is the unsigned mean. Bounds are the
// observed RMSD min/max plus one sample standard deviation; a singleton
// bin gets the degenerate but well-defined std of 0 rather than an
// omitted field.
type CalibrationBin struct {
	Confidence   ConfidenceBin `json:"confidence"`
	Count        int           `json:"n_samples"`
	MeanError    float64       `json:"mean_error"`
	MeanAbsError float64       `json:"mean_abs_error"`
	RMSDMean     float64       `json:"rmsd_mean"`
	RMSDStd      float64       `json:"rmsd_std"`
	RMSDMin      float64       `json:"rmsd_min"`
	RMSDMax      float64       `json:"rmsd_max"`
	RMSDMedian   float64       `json:"rmsd_median"`
}

// CalibrationReport is the run-wide confidence-vs-error summary. Bins are
// ordered high, medium, low; only populated bins are listed.
type CalibrationReport struct {
	Version       string           `json:"version"`
	TotalTargets  int              `json:"total_targets"`
	PopulatedBins int              `json:"confidence_bins"`
	Bins          []CalibrationBin `json:"calibration_data"`
}

// Calibrate groups SARs by overall confidence bin and computes the error
// statistics per bin. Outcomes without a SAR contribute nothing.
func Calibrate(version string, outcomes []TargetOutcome) CalibrationReport {
	byBin := make(map[ConfidenceBin][]*SAR)
	total := 0
	for i := range outcomes {
		s := outcomes[i].SAR
		if s == nil {
			continue
		}
		total++
		byBin[s.Confidence.Overall] = append(byBin[s.Confidence.Overall], s)
	}

	report := CalibrationReport{Version: version, TotalTargets: total}
	for _, bin := range ConfidenceBins {
		sars := byBin[bin]
		if len(sars) == 0 {
			continue
		}
		report.Bins = append(report.Bins, summarizeBin(bin, sars))
		report.PopulatedBins++
	}
	return report
}

func summarizeBin(bin ConfidenceBin, sars []*SAR) CalibrationBin {
	rmsds := make([]float64, 0, len(sars))
	errs := make([]float64, 0, len(sars))
	absErrs := make([]float64, 0, len(sars))
	for _, s := range sars {
		rmsds = append(rmsds, s.Metrics.RMSDGlobal)
		e := s.Metrics.RMSDGlobal
		if s.ExpectedError != nil {
			e = s.Metrics.RMSDGlobal - s.ExpectedError.RMSDMax
		}
		errs = append(errs, e)
		if e < 0 {
			absErrs = append(absErrs, -e)
		} else {
			absErrs = append(absErrs, e)
		}
	}

	sorted := append([]float64(nil), rmsds...)
	sort.Float64s(sorted)

	std := 0.0
	if len(rmsds) > 1 {
		std = stat.StdDev(rmsds, nil)
	}

	return CalibrationBin{
		Confidence:   bin,
		Count:        len(sars),
		MeanError:    stat.Mean(errs, nil),
		MeanAbsError: stat.Mean(absErrs, nil),
		RMSDMean:     stat.Mean(rmsds, nil),
		RMSDStd:      std,
		RMSDMin:      sorted[0],
		RMSDMax:      sorted[len(sorted)-1],
		RMSDMedian:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}

// minCalibrationBins is the coverage floor for the Calibration rubric check.
const minCalibrationBins = 3

// CalibrationCheck evaluates the calibration-insufficiency condition as a
// named rubric check rather than an error: the report must contain at
// least three populated bins, each with a computed error distribution.
func CalibrationCheck(r CalibrationReport) RubricCheck {
	for _, b := range r.Bins {
		if b.Count < 1 {
			return RubricCheck{
				Name:   "Calibration",
				Pass:   false,
				Detail: fmt.Sprintf("bin %s listed without members", b.Confidence),
			}
		}
	}
	if r.PopulatedBins < minCalibrationBins {
		return RubricCheck{
			Name:   "Calibration",
			Pass:   false,
			Detail: fmt.Sprintf("%d confidence bins populated (need %d)", r.PopulatedBins, minCalibrationBins),
		}
	}
	return RubricCheck{
		Name:   "Calibration",
		Pass:   true,
		Detail: fmt.Sprintf("%d confidence bins with error distributions", r.PopulatedBins),
	}
}
