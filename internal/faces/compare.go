package faces

import "math"

// MatchTolerance is the conventional distance threshold for two encodings to
// belong to the same person. Distances slightly above it may still match for
// a caller-chosen epsilon; distances well above it do not.
const MatchTolerance = 0.6

// Compare returns the Euclidean distance between two face encodings.
func Compare(a, b Encoding) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Distances compares a probe encoding against a list of known encodings,
// returning one distance per known encoding in the same order.
func Distances(known []Encoding, probe Encoding) []float64 {
	out := make([]float64, len(known))
	for i, enc := range known {
		out[i] = Compare(enc, probe)
	}
	return out
}

// Advisory calibration of gender scores: the model was trained with value 1
// for female and -1 for male faces. Scores inside (GenderUncertainLow,
// GenderUncertainHigh) should be treated as unknown.
const (
	GenderUncertainLow  = -0.3
	GenderUncertainHigh = 0.3
)

// InterpretGender maps a raw gender score to a human readable label using the
// advisory calibration.
func InterpretGender(score float64) string {
	switch {
	case score >= GenderUncertainHigh:
		return "female"
	case score <= GenderUncertainLow:
		return "male"
	default:
		return "uncertain"
	}
}
