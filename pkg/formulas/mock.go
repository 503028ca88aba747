package formulas

import (
	"math"
	"math/rand/v2"
)

const (
	// DefaultAnnualVolatility is the annualized volatility of generated mock returns (20%).
	DefaultAnnualVolatility = 0.2

	// DefaultDrift is the annualized drift of generated mock returns (10%).
	DefaultDrift = 0.1

	// DefaultStartPrice is the first level of a generated mock price path.
	DefaultStartPrice = 100.0
)

// RandomSource supplies uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewSeededSource returns a deterministic source for reproducible mock series.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GenerateMockReturns produces a daily return series for demos and tests.
//
// Each return is uniform noise scaled to the daily volatility plus the daily drift:
//
//	r = (u - 0.5) * 2 * annualVol/sqrt(252) + drift/252, u ~ U[0, 1)
//
// This is deliberately not a Gaussian model. A nil source uses the global generator.
func GenerateMockReturns(src RandomSource, days int, annualVol, drift float64) []float64 {
	if days <= 0 {
		return []float64{}
	}

	next := rand.Float64
	if src != nil {
		next = src.Float64
	}

	dailyVol := annualVol / math.Sqrt(TradingDaysPerYear)
	dailyDrift := drift / TradingDaysPerYear

	returns := make([]float64, days)
	for i := range returns {
		returns[i] = (next()-0.5)*2*dailyVol + dailyDrift
	}

	return returns
}

// GenerateMockPrices compounds a price path from a return series.
// The result has len(returns)+1 points and starts at startPrice.
func GenerateMockPrices(returns []float64, startPrice float64) []float64 {
	prices := make([]float64, 0, len(returns)+1)
	prices = append(prices, startPrice)

	for _, r := range returns {
		prices = append(prices, prices[len(prices)-1]*(1+r))
	}

	return prices
}
