package audit

// GateInput is everything the decision gate engine sees for one target.
type GateInput struct {
	Class       FailureClass
	RMSDGlobal  float64
	ExpectedMax float64
}

// gateRule is one (predicate, verdict) pair. First match wins.
type gateRule struct {
	gate  DecisionGate
	match func(GateInput) bool
}

// gateRules is the ordered decision rubric. REJECT is evaluated before
// ACCEPT so a known-critical failure class can never be accepted, even if
// its RMSD sits inside a locally mismeasured expected range.
var gateRules = []gateRule{
	{
		gate: GateReject,
		match: func(in GateInput) bool {
			return in.Class == ClassA || in.Class == ClassC ||
				in.RMSDGlobal > in.ExpectedMax*2
		},
	},
	{
		gate: GateAccept,
		match: func(in GateInput) bool {
			return in.RMSDGlobal <= in.ExpectedMax
		},
	},
}

// Decide assigns exactly one decision gate. The fall-through verdict is
// REVIEW, covering Unknown/Class B failures and moderate overages that are
// neither clean passes nor critical failures.
func Decide(in GateInput) DecisionGate {
	for _, r := range gateRules {
		if r.match(in) {
			return r.gate
		}
	}
	return GateReview
}
