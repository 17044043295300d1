package predict

import (
	"errors"
	"math"
)

// RMSD computes the root-mean-square deviation between two coordinate
// sets, each a list of xyz triples. When the sets differ in length the
// comparison runs over the common prefix; an empty set is an error.
func RMSD(pred, ref [][]float64) (float64, error) {
	n := len(pred)
	if len(ref) < n {
		n = len(ref)
	}
	if n == 0 {
		return 0, errors.New("empty coordinate set")
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		p, r := pred[i], ref[i]
		dims := len(p)
		if len(r) < dims {
			dims = len(r)
		}
		for d := 0; d < dims; d++ {
			diff := p[d] - r[d]
			sum += diff * diff
		}
	}
	return math.Sqrt(sum / float64(n)), nil
}
