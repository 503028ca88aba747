package formulas

import (
	"math"
)

// CalculateSharpeRatio calculates the Sharpe Ratio from annualized figures.
//
// Sharpe Ratio Formula:
//
//	Sharpe = (Annualized Return - Risk-free Rate) / Volatility
//
// Args:
//
//	annualizedReturn: Annualized return in percent
//	volatility: Annualized volatility in percent
//	riskFreeRate: Annual risk-free rate in percent (DefaultRiskFreeRate = 10.5)
//
// Returns:
//
//	Sharpe ratio. Zero volatility is not special-cased: the division follows
//	IEEE-754 and yields +Inf, -Inf or NaN.
func CalculateSharpeRatio(annualizedReturn, volatility, riskFreeRate float64) float64 {
	return (annualizedReturn - riskFreeRate) / volatility
}

// CalculateSortinoRatio calculates the Sortino Ratio (downside deviation version of Sharpe)
// Only excess returns below zero contribute to the risk term.
//
// Sortino Formula:
//
//	Excess[i] = r[i] - riskFreeRate/252
//	Downside Deviation = sqrt(mean(Excess[i]^2 for Excess[i] < 0) * 252)
//	Sortino = mean(Excess) * 252 / Downside Deviation
//
// Args:
//
//	returns: Daily returns as decimals
//	riskFreeRate: Annual risk-free rate, subtracted per period as riskFreeRate/252
//
// Returns:
//
//	Sortino ratio, or 0 when no excess return is negative
func CalculateSortinoRatio(returns []float64, riskFreeRate float64) float64 {
	periodicRiskFree := riskFreeRate / TradingDaysPerYear

	excessReturns := make([]float64, len(returns))
	var downsideSquaredSum float64
	downsideCount := 0
	for i, r := range returns {
		excess := r - periodicRiskFree
		excessReturns[i] = excess
		if excess < 0 {
			downsideSquaredSum += excess * excess
			downsideCount++
		}
	}

	if downsideCount == 0 {
		return 0
	}

	meanExcessReturn := Mean(excessReturns)
	downsideVariance := downsideSquaredSum / float64(downsideCount)
	downsideDeviation := math.Sqrt(downsideVariance * TradingDaysPerYear)

	return (meanExcessReturn * TradingDaysPerYear) / downsideDeviation
}

// CalculateCalmarRatio divides the annualized return by the magnitude of the maximum drawdown.
// A zero drawdown yields 0 rather than an infinite ratio.
func CalculateCalmarRatio(annualizedReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return annualizedReturn / math.Abs(maxDrawdown)
}
