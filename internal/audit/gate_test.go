package audit

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		in   GateInput
		want DecisionGate
	}{
		{
			name: "overconfidence is rejected",
			in:   GateInput{Class: ClassA, RMSDGlobal: 17.85, ExpectedMax: 2.0},
			want: GateReject,
		},
		{
			name: "symmetry failure is rejected",
			in:   GateInput{Class: ClassC, RMSDGlobal: 17.65, ExpectedMax: 8.0},
			want: GateReject,
		},
		{
			name: "double overage is rejected regardless of class",
			in:   GateInput{Class: ClassUnknown, RMSDGlobal: 9.0, ExpectedMax: 4.0},
			want: GateReject,
		},
		{
			name: "within range is accepted",
			in:   GateInput{Class: ClassNA, RMSDGlobal: 1.2, ExpectedMax: 2.0},
			want: GateAccept,
		},
		{
			name: "boundary RMSD equal to max is accepted",
			in:   GateInput{Class: ClassNA, RMSDGlobal: 2.0, ExpectedMax: 2.0},
			want: GateAccept,
		},
		{
			name: "moderate overage falls through to review",
			in:   GateInput{Class: ClassUnknown, RMSDGlobal: 5.0, ExpectedMax: 4.0},
			want: GateReview,
		},
		{
			name: "ligand pose within range still reviewed if over max",
			in:   GateInput{Class: ClassB, RMSDGlobal: 4.5, ExpectedMax: 4.0},
			want: GateReview,
		},
		{
			name: "class B inside range is accepted",
			in:   GateInput{Class: ClassB, RMSDGlobal: 3.0, ExpectedMax: 4.0},
			want: GateAccept,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.in); got != tt.want {
				t.Errorf("Decide(%+v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestAssessConfidence(t *testing.T) {
	tests := []struct {
		name    string
		m       RawMetrics
		overall ConfidenceBin
	}{
		{"both high", RawMetrics{PLDDTMean: 94, PAEMean: 3}, ConfidenceHigh},
		{"plddt boundary 90 is medium", RawMetrics{PLDDTMean: 90, PAEMean: 3}, ConfidenceMedium},
		{"pae boundary 5 drops overall", RawMetrics{PLDDTMean: 94, PAEMean: 5}, ConfidenceMedium},
		{"either low wins", RawMetrics{PLDDTMean: 94, PAEMean: 12}, ConfidenceLow},
		{"both low", RawMetrics{PLDDTMean: 55, PAEMean: 14}, ConfidenceLow},
		{"mixed medium", RawMetrics{PLDDTMean: 80, PAEMean: 7}, ConfidenceMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssessConfidence(tt.m); got.Overall != tt.overall {
				t.Errorf("overall = %s, want %s (bins %s/%s)", got.Overall, tt.overall, got.PLDDTBin, got.PAEBin)
			}
		})
	}
}

func TestValidGate(t *testing.T) {
	for _, g := range DecisionGates {
		if !ValidGate(g) {
			t.Errorf("ValidGate(%s) = false", g)
		}
	}
	for _, g := range []DecisionGate{"", "accept", "MAYBE", "Reject"} {
		if ValidGate(g) {
			t.Errorf("ValidGate(%q) = true", g)
		}
	}
}
