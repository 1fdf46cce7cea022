// Package common holds small helpers and constants shared across the engine
// packages.
package common

// Coalesce returns the first of values that differs from the zero value of T.
// Constructors use it to layer option-overridable defaults: pass the
// possibly-set field first and the default second.
//
// Parameters:
//   - values: candidate values in priority order
//
// Returns:
//   - T: the first non-zero candidate, or T's zero value when every candidate is zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, candidate := range values {
		if candidate != zero {
			return candidate
		}
	}
	return zero
}
