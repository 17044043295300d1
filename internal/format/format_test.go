package format

import (
	"strings"
	"testing"
)

func TestTable_Markdown(t *testing.T) {
	tbl := NewTable(Markdown)
	tbl.Header("Decision Gate", "Count")
	tbl.Row("ACCEPT", 2)
	tbl.Row("REJECT", 8)

	out := tbl.String()
	if !strings.Contains(out, "| Decision Gate | Count |") {
		t.Errorf("expected markdown header row, got:\n%s", out)
	}
	if !strings.Contains(out, "| ACCEPT | 2 |") {
		t.Errorf("expected ACCEPT row, got:\n%s", out)
	}
}

func TestTable_ASCII(t *testing.T) {
	tbl := NewTable(ASCII)
	tbl.Header("PDB ID", "RMSD")
	tbl.Row("8ABC", "17.65")

	out := tbl.String()
	if !strings.Contains(out, "8ABC") || !strings.Contains(out, "17.65") {
		t.Errorf("expected data in ASCII render, got:\n%s", out)
	}
	if strings.Contains(out, "| 8ABC | 17.65 |") {
		t.Errorf("ASCII mode should not render markdown pipes, got:\n%s", out)
	}
}

func TestPct(t *testing.T) {
	if got := Pct(3, 10); got != "30.0%" {
		t.Errorf("Pct(3,10) = %q", got)
	}
	if got := Pct(0, 0); got != "0.0%" {
		t.Errorf("Pct(0,0) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdefgh", 5); got != "ab..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 5); got != "abc" {
		t.Errorf("Truncate short = %q", got)
	}
}
