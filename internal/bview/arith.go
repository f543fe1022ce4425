package bview

import "golang.org/x/exp/constraints"

// CheckedAdd returns a+b and whether the sum did not wrap.
func CheckedAdd[U constraints.Unsigned](a, b U) (U, bool) {
	s := a + b
	return s, s >= a
}

// CheckedSub returns a-b and whether the difference did not underflow.
func CheckedSub[U constraints.Unsigned](a, b U) (U, bool) {
	return a - b, a >= b
}

// SaturatingAdd returns a+b, clamped to the maximum value of U.
func SaturatingAdd[U constraints.Unsigned](a, b U) U {
	if s, ok := CheckedAdd(a, b); ok {
		return s
	}
	return ^U(0)
}
