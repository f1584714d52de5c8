package calculator

import "math"

// PerfectScore is the fairness of a group with no imbalance (or no expenses).
const PerfectScore = 100

// FairnessScore summarizes balances as an integer in [0, 100]:
//
//	score = floor(100 * (1 - imbalance / (imbalance + 1)))
//
// where imbalance is the sum of absolute balances. The arithmetic is done in
// float64, one rounded step at a time, so results match existing clients
// exactly; an imbalance of 4.00 scores 19, not 20.
func FairnessScore(balances *Balances) int {
	if balances.Len() == 0 {
		return PerfectScore
	}

	var imbalance float64
	for _, amount := range balances.All() {
		imbalance += math.Abs(amount.Float64())
	}

	// The explicit float64 conversions force rounding after each step. Without
	// them the compiler may fuse 100*(1-ratio) into an FMA and change scores.
	ratio := float64(imbalance / (imbalance + 1))
	score := int(math.Floor(float64(100 * (1 - ratio))))
	return max(0, score)
}
