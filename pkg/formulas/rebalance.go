package formulas

import (
	"fmt"
	"math"
)

// RebalancingBound compares one current weight with its target.
type RebalancingBound struct {
	Symbol           string  `json:"symbol" msgpack:"symbol"`
	Current          float64 `json:"current" msgpack:"current"`
	Target           float64 `json:"target" msgpack:"target"`
	NeedsRebalancing bool    `json:"needsRebalancing" msgpack:"needsRebalancing"`
}

// CalculateRebalancingBounds pairs current and target weights by position and flags
// every pair whose absolute deviation exceeds tolerance.
//
// One bound is returned per current weight; symbols are synthetic labels
// (Asset1, Asset2, ...). A current weight without a target gets a NaN target
// and is never flagged. Extra targets are ignored.
func CalculateRebalancingBounds(currentWeights, targetWeights []float64, tolerance float64) []RebalancingBound {
	bounds := make([]RebalancingBound, len(currentWeights))
	for i, current := range currentWeights {
		target := math.NaN()
		if i < len(targetWeights) {
			target = targetWeights[i]
		}

		bounds[i] = RebalancingBound{
			Symbol:  fmt.Sprintf("Asset%d", i+1),
			Current: current,
			Target:  target,
			// NaN compares false, so a missing target never needs rebalancing.
			NeedsRebalancing: math.Abs(current-target) > tolerance,
		}
	}

	return bounds
}
