// Package compliance holds the validation engine core: the pay record model,
// the issue model, the pre-validation gate, and the four award rule
// evaluators. Everything here is pure domain logic - no I/O, no side effects.
package compliance

import "math"

// Tolerances before a discrepancy counts as a violation. Rates compare to the
// cent; aggregate amounts get a nickel of rounding slack.
const (
	RateTolerance   = 0.01
	AmountTolerance = 0.05
)

// SuperGuaranteeRate is the superannuation guarantee percentage of gross pay.
const SuperGuaranteeRate = 0.12

// RoundCents rounds a currency amount to the nearest cent. All impact amounts
// pass through here so aggregate sums stay stable across runs.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
