package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// CalculateRollingVolatility calculates annualized volatility over a sliding window.
//
// Each window uses the population standard deviation (go-talib StdDev), scaled by
// sqrt(252) and expressed in percent. The result has len(returns)-window+1 points,
// the first one covering returns[0:window]. Windows shorter than 2 or longer than
// the series yield an empty slice.
func CalculateRollingVolatility(returns []float64, window int) []float64 {
	if window < 2 || window > len(returns) {
		return []float64{}
	}

	stdDevs := talib.StdDev(returns, window, 1.0)
	annualization := math.Sqrt(TradingDaysPerYear) * 100

	rolling := make([]float64, 0, len(returns)-window+1)
	for _, sd := range stdDevs[window-1:] {
		rolling = append(rolling, sd*annualization)
	}

	return rolling
}
