package audit

import (
	"strings"
	"testing"
)

func TestFormatRunReport(t *testing.T) {
	r := Compile(compileFixture())
	out := FormatRunReport(r)

	if !strings.Contains(out, "Run:     RUN_T") {
		t.Error("report missing run header")
	}
	for _, name := range []string{"Integrity", "Completeness", "SAR Validity", "Calibration", "Provenance"} {
		if !strings.Contains(out, name) {
			t.Errorf("report missing rubric check %s", name)
		}
	}
	// Every gate row appears, zero counts included.
	for _, g := range DecisionGates {
		if !strings.Contains(out, string(g)) {
			t.Errorf("report missing gate row %s", g)
		}
	}
	if !strings.Contains(out, "RESULT: PASS") {
		t.Errorf("report tail: %q", out[len(out)-60:])
	}
	// Errored targets show up with the error text.
	if !strings.Contains(out, "metric source failed") {
		t.Error("report missing errored target row")
	}
}

func TestFormatRunReportNamesFailingChecks(t *testing.T) {
	in := compileFixture()
	in.CommandLine = ""
	out := FormatRunReport(Compile(in))
	if !strings.Contains(out, "RESULT: FAIL (failing: Provenance)") {
		t.Errorf("report tail does not name failing check:\n%s", out)
	}
}

func TestFormatSummaryMarkdown(t *testing.T) {
	r := Compile(compileFixture())
	out := FormatSummaryMarkdown(r)

	for _, heading := range []string{
		"# RUN_T - SAR Summary",
		"## Decision Gate Distribution",
		"## Failure Taxonomy Distribution",
		"## Target Details",
		"## Run Rubric",
	} {
		if !strings.Contains(out, heading) {
			t.Errorf("summary missing %q", heading)
		}
	}
	if !strings.Contains(out, "Overconfidence artifact") {
		t.Error("summary missing taxonomy description")
	}
	if !strings.Contains(out, "| H1") {
		t.Error("summary missing target detail row")
	}
}
