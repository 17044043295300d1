package audit

import (
	"fmt"
	"strings"

	"helix/internal/format"
)

// classDescriptions gives the static taxonomy wording used in summary
// tables, as opposed to the per-target Failure.Description.
var classDescriptions = map[FailureClass]string{
	ClassNA:      "No failure detected",
	ClassA:       "Overconfidence artifact",
	ClassB:       "Ligand pose failure",
	ClassC:       "Symmetry/assembly failure",
	ClassUnknown: "Unmapped failure mode",
}

// FormatRunReport renders the terminal report for a completed run.
func FormatRunReport(r *RunResult) string {
	var b strings.Builder

	b.WriteString("=== Helix Structural Audit ===\n")
	b.WriteString(fmt.Sprintf("Run:     %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Targets: %d (%d SARs, %d errored)\n\n",
		r.Summary.Total, r.Summary.WithSAR, r.Summary.Errored))

	b.WriteString("--- Gate rubric ---\n")
	for _, c := range r.Checks {
		b.WriteString(fmt.Sprintf("%s %-13s %s\n", format.BoolMark(c.Pass), c.Name, c.Detail))
	}
	b.WriteString("\n")

	gates := format.NewTable(format.ASCII)
	gates.Header("Decision Gate", "Count", "Share")
	gates.Columns(format.Column{Number: 2, Align: format.AlignRight}, format.Column{Number: 3, Align: format.AlignRight})
	for _, row := range r.Summary.Gates {
		gates.Row(row.Label, row.Count, format.Pct(row.Count, r.Summary.WithSAR))
	}
	b.WriteString(gates.String())
	b.WriteString("\n\n")

	classes := format.NewTable(format.ASCII)
	classes.Header("Failure Class", "Count", "Description")
	classes.Columns(format.Column{Number: 2, Align: format.AlignRight})
	for _, row := range r.Summary.Classes {
		classes.Row(row.Label, row.Count, classDescriptions[FailureClass(row.Label)])
	}
	b.WriteString(classes.String())
	b.WriteString("\n\n")

	b.WriteString(formatTargetTable(r, format.ASCII))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("RESULT: %s", r.Status))
	if failing := r.FailingChecks(); len(failing) > 0 {
		b.WriteString(" (failing: " + strings.Join(failing, ", ") + ")")
	}
	b.WriteString("\n")

	return b.String()
}

// formatTargetTable renders the per-target detail rows in manifest order.
func formatTargetTable(r *RunResult, mode format.Mode) string {
	tbl := format.NewTable(mode)
	tbl.Header("PDB ID", "Decision Gate", "Failure Class", "RMSD (Å)", "pLDDT", "Confidence")
	tbl.Columns(
		format.Column{Number: 4, Align: format.AlignRight},
		format.Column{Number: 5, Align: format.AlignRight},
	)
	for _, o := range r.Outcomes {
		if o.SAR == nil {
			tbl.Row(o.PDBID, "—", "—", "—", "—", "error: "+format.Truncate(o.Error, 40))
			continue
		}
		s := o.SAR
		tbl.Row(s.PDBID, string(s.DecisionGate), string(s.Failure.Class),
			fmt.Sprintf("%.2f", s.Metrics.RMSDGlobal),
			fmt.Sprintf("%.1f", s.Metrics.PLDDTMean),
			string(s.Confidence.Overall))
	}
	return tbl.String()
}

// FormatSummaryMarkdown renders SAR_SUMMARY.md.
func FormatSummaryMarkdown(r *RunResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s - SAR Summary\n\n", r.RunID))
	b.WriteString(fmt.Sprintf("**Generated:** %s\n", r.Provenance.FinishedAt))
	b.WriteString(fmt.Sprintf("**Total Targets:** %d\n\n", r.Summary.Total))

	b.WriteString("## Decision Gate Distribution\n\n")
	gates := format.NewTable(format.Markdown)
	gates.Header("Decision Gate", "Count", "Percentage")
	for _, row := range r.Summary.Gates {
		gates.Row(row.Label, row.Count, format.Pct(row.Count, r.Summary.WithSAR))
	}
	b.WriteString(gates.String())
	b.WriteString("\n\n")

	b.WriteString("## Failure Taxonomy Distribution\n\n")
	classes := format.NewTable(format.Markdown)
	classes.Header("Failure Class", "Count", "Description")
	for _, row := range r.Summary.Classes {
		classes.Row(row.Label, row.Count, classDescriptions[FailureClass(row.Label)])
	}
	b.WriteString(classes.String())
	b.WriteString("\n\n")

	b.WriteString("## Target Details\n\n")
	b.WriteString(formatTargetTable(r, format.Markdown))
	b.WriteString("\n\n")

	b.WriteString("## Run Rubric\n\n")
	rubric := format.NewTable(format.Markdown)
	rubric.Header("Check", "Result", "Detail")
	for _, c := range r.Checks {
		result := "PASS"
		if !c.Pass {
			result = "FAIL"
		}
		rubric.Row(c.Name, result, c.Detail)
	}
	b.WriteString(rubric.String())
	b.WriteString(fmt.Sprintf("\n\n**Overall:** %s\n", r.Status))

	return b.String()
}
