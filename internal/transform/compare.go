package transform

import (
	"math"

	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/value"
)

// boundaryULPs is how many units in the last place of the larger operand a
// difference may exceed the tolerance by and still count as inside it, so
// that 10.00 vs 10.05 at 0.05 matches despite binary rounding.
const boundaryULPs = 4

// Equal reports whether two values match with no tolerance and no
// transformation: nulls match only each other, everything else compares by
// string form.
func Equal(expected, actual value.Value) bool {
	if expected.IsNull() || actual.IsNull() {
		return expected.IsNull() && actual.IsNull()
	}

	return expected.String() == actual.String()
}

// Tolerant compares two non-null values numerically when possible and by
// string form otherwise. The tolerance is an inclusive absolute bound.
// Two Integers are compared exactly in integer arithmetic.
func Tolerant(expected, actual value.Value, tolerance float64) bool {
	if e, ok := expected.Integer(); ok {
		if a, ok := actual.Integer(); ok {
			return float64(distance(e, a)) <= tolerance
		}
	}

	if e, a, ok := numericPair(expected, actual); ok {
		diff := math.Abs(e - a)
		if diff <= tolerance {
			return true
		}

		return diff-tolerance <= boundaryULPs*ulp(math.Max(math.Abs(e), math.Abs(a)))
	}

	return expected.String() == actual.String()
}

// TextEqual is the comparison used by formatting rules: the formatted
// expected value must equal the actual value's string form exactly.
func TextEqual(expected, actual value.Value, _ *mapping.ValidationRules) bool {
	return expected.String() == actual.String()
}

func tolerantCompare(expected, actual value.Value, rules *mapping.ValidationRules) bool {
	return Tolerant(expected, actual, tolerance(rules))
}

func tolerance(rules *mapping.ValidationRules) float64 {
	if rules == nil {
		return 0
	}

	return rules.NumericTolerance
}

// numericPair returns numeric views of both values when both are numbers, or
// when one is a number and the other is text holding a decimal number.
func numericPair(a, b value.Value) (float64, float64, bool) {
	if !a.IsNumber() && !b.IsNumber() {
		return 0, 0, false
	}

	x, okA := a.ParseNumber()
	y, okB := b.ParseNumber()

	return x, y, okA && okB
}

// distance returns |a-b| without overflowing.
func distance(a, b int64) uint64 {
	if a < b {
		a, b = b, a
	}

	return uint64(a) - uint64(b)
}

// ulp returns the gap between x >= 0 and the next larger float64.
func ulp(x float64) float64 {
	return math.Nextafter(x, math.Inf(1)) - x
}
