// Package formulas implements the financial metrics engine: pure functions that
// turn daily return and price series into risk and performance statistics.
//
// Percentage outputs are expressed as percent (x100), ratios are unitless.
// No function rounds; formatting is left to callers.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// TradingDaysPerYear is the annualization factor for daily series.
	TradingDaysPerYear = 252

	// DefaultRiskFreeRate is the annual risk-free rate in percent (SELIC approximation).
	DefaultRiskFreeRate = 10.5

	// DefaultConfidence is the confidence level used by VaR and Expected Shortfall.
	DefaultConfidence = 0.95

	// DefaultYears is the holding period assumed by the composite metrics.
	DefaultYears = 3.0

	// DefaultRebalanceTolerance is the absolute weight deviation that triggers a rebalance.
	DefaultRebalanceTolerance = 0.05
)

// Mean calculates the arithmetic mean of a slice of float64 values.
// An empty slice yields NaN.
func Mean(data []float64) float64 {
	return stat.Mean(data, nil)
}

// SampleVariance calculates the variance with the n-1 divisor.
// Fewer than two observations yield NaN.
func SampleVariance(data []float64) float64 {
	return stat.Variance(data, nil)
}

// CalculateReturns converts prices to simple returns
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// CalculateTotalReturn returns the growth between the first and last observation in percent.
//
// Formula: (last / first - 1) * 100
//
// An empty series yields NaN.
func CalculateTotalReturn(prices []float64) float64 {
	if len(prices) == 0 {
		return math.NaN()
	}
	return (prices[len(prices)-1]/prices[0] - 1) * 100
}

// CalculateAnnualizedReturn converts a total return into a compound annual rate.
//
// Formula:
//
//	Annualized = ((1 + TotalReturn/100)^(1/years) - 1) * 100
//
// Args:
//
//	totalReturn: Total return over the period in percent (e.g., 25 = 25%)
//	years: Length of the period in years, must be > 0
//
// Returns:
//
//	Annualized return in percent
func CalculateAnnualizedReturn(totalReturn, years float64) float64 {
	return (math.Pow(1+totalReturn/100, 1/years) - 1) * 100
}

// CalculateVolatility calculates annualized volatility from daily returns.
//
// Formula:
//
//	Volatility = sqrt(SampleVariance(returns) * 252) * 100
//
// The sample variance uses the n-1 divisor, so a single observation yields NaN.
//
// Returns:
//
//	Annualized volatility in percent (e.g., 20 = 20%)
func CalculateVolatility(dailyReturns []float64) float64 {
	variance := SampleVariance(dailyReturns)
	return math.Sqrt(variance*TradingDaysPerYear) * 100
}

// CalculateCumulativeReturns compounds a return series into a cumulative return path in percent.
func CalculateCumulativeReturns(returns []float64) []float64 {
	cumulative := make([]float64, len(returns))
	growth := 1.0
	for i, r := range returns {
		growth *= 1 + r
		cumulative[i] = (growth - 1) * 100
	}
	return cumulative
}
