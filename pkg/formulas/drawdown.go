package formulas

// DrawdownMetrics represents drawdown analysis results
type DrawdownMetrics struct {
	MaxDrawdown     float64 `json:"maxDrawdown" msgpack:"maxDrawdown"`         // Maximum drawdown in percent, positive magnitude (25 = 25% loss from peak)
	CurrentDrawdown float64 `json:"currentDrawdown" msgpack:"currentDrawdown"` // Drawdown of the last observation from the running peak, in percent
	DaysInDrawdown  int     `json:"daysInDrawdown" msgpack:"daysInDrawdown"`   // Observations since the running peak
	PeakValue       float64 `json:"peakValue" msgpack:"peakValue"`             // Value at peak
	CurrentValue    float64 `json:"currentValue" msgpack:"currentValue"`       // Last value
}

// CalculateMaxDrawdown calculates the maximum drawdown from a price series
//
// Drawdown Formula:
//
//	Drawdown = (Peak Value - Current Value) / Peak Value
//	Max Drawdown = Maximum of all drawdowns * 100
//
// Args:
//
//	prices: Array of price levels in chronological order
//
// Returns:
//
//	Maximum drawdown as a positive percentage (25 = 25% loss from peak).
//	Callers display it negated. A series with fewer than two prices yields 0.
func CalculateMaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	maxDrawdown := 0.0
	peak := prices[0]

	for _, price := range prices[1:] {
		if price > peak {
			peak = price
		}

		if peak > 0 {
			drawdown := (peak - price) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown * 100
}

// CalculateDrawdownMetrics calculates comprehensive drawdown metrics
// including current drawdown, days in drawdown, and peak values.
// Returns nil for an empty series.
func CalculateDrawdownMetrics(prices []float64) *DrawdownMetrics {
	if len(prices) == 0 {
		return nil
	}

	maxDrawdown := 0.0
	peak := prices[0]
	peakIndex := 0
	currentValue := prices[len(prices)-1]

	for i, price := range prices {
		if price > peak {
			peak = price
			peakIndex = i
		}

		if peak > 0 {
			drawdown := (peak - price) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	currentDrawdown := 0.0
	if peak > 0 {
		currentDrawdown = (peak - currentValue) / peak
	}

	return &DrawdownMetrics{
		MaxDrawdown:     maxDrawdown * 100,
		CurrentDrawdown: currentDrawdown * 100,
		DaysInDrawdown:  len(prices) - 1 - peakIndex,
		PeakValue:       peak,
		CurrentValue:    currentValue,
	}
}

// CalculateDrawdownSeries returns the drawdown of every observation from its running peak,
// as a negative percentage, for drawdown charts.
func CalculateDrawdownSeries(prices []float64) []float64 {
	series := make([]float64, len(prices))
	if len(prices) == 0 {
		return series
	}

	peak := prices[0]
	for i, price := range prices {
		if price > peak {
			peak = price
		}
		if peak > 0 {
			series[i] = (price - peak) / peak * 100
		}
	}

	return series
}
