package formulas

import (
	"math"
	"sort"
)

// CalculateVaR calculates historical Value at Risk at the specified confidence level.
// Empirical quantile without interpolation:
//
//	index = floor((1 - confidence) * n) over the ascending-sorted returns
//	VaR = sorted[index] * 100
//
// Args:
//   - returns: Daily returns as decimals (negative for losses)
//   - confidence: Confidence level (e.g., 0.95 for 95%)
//
// Returns:
//   - VaR in percent (negative for losses). NaN when the index falls outside
//     the series, which happens for an empty series or a confidence outside (0, 1].
func CalculateVaR(returns []float64, confidence float64) float64 {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	index := math.Floor((1 - confidence) * float64(len(sorted)))
	if index < 0 || index >= float64(len(sorted)) {
		return math.NaN()
	}

	return sorted[int(index)] * 100
}

// CalculateExpectedShortfall calculates the Expected Shortfall (Conditional VaR):
// the mean of all returns at or below the VaR threshold.
//
// Args:
//   - returns: Daily returns as decimals
//   - confidence: Confidence level (e.g., 0.95)
//
// Returns:
//   - Expected Shortfall in percent. When no return reaches the threshold the VaR itself is returned.
func CalculateExpectedShortfall(returns []float64, confidence float64) float64 {
	threshold := CalculateVaR(returns, confidence) / 100

	sum := 0.0
	count := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			count++
		}
	}

	if count == 0 {
		return threshold * 100
	}

	return sum / float64(count) * 100
}
