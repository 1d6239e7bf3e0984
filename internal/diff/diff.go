// Package diff detects byte-level differences between two blobs.
package diff

// Run is a maximal span of consecutive byte positions at which two
// equal-length inputs differ. Length is always at least 1.
type Run struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// End returns the exclusive end offset of the run.
func (r Run) End() int {
	return r.Offset + r.Length
}

// Outcome is the result of comparing two blobs. When SameLength is false no
// byte-level comparison took place and Runs is empty.
type Outcome struct {
	SameLength bool  `json:"sameLength"`
	Runs       []Run `json:"diffs"`
}

// DifferentLengths returns the outcome for inputs whose lengths do not match.
func DifferentLengths() Outcome {
	return Outcome{Runs: []Run{}}
}

// OfRuns returns a same-length outcome carrying the given runs.
func OfRuns(runs []Run) Outcome {
	if runs == nil {
		runs = []Run{}
	}
	return Outcome{SameLength: true, Runs: runs}
}

// Identical reports whether the compared inputs had the same length and
// content.
func (o Outcome) Identical() bool {
	return o.SameLength && len(o.Runs) == 0
}

// Equal reports whether two outcomes carry the same fields.
func (o Outcome) Equal(other Outcome) bool {
	if o.SameLength != other.SameLength || len(o.Runs) != len(other.Runs) {
		return false
	}
	for i := range o.Runs {
		if o.Runs[i] != other.Runs[i] {
			return false
		}
	}
	return true
}

// Compare reports the differences between left and right. Inputs of
// different lengths short-circuit to DifferentLengths without inspecting any
// byte.
func Compare(left, right []byte) Outcome {
	if len(left) != len(right) {
		return DifferentLengths()
	}
	return OfRuns(Scan(left, right))
}
