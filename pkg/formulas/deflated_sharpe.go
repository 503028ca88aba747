package formulas

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData is returned when a statistic needs more observations.
	ErrInsufficientData = errors.New("insufficient observations")

	// ErrDegenerateSharpe is returned when the Sharpe ratio has no positive sampling variance.
	ErrDegenerateSharpe = errors.New("sharpe ratio variance is not positive")
)

// CalculateDeflatedSharpeRatio estimates the probability that the observed Sharpe ratio
// is not the product of luck, after adjusting for non-normal returns and the number of
// strategy variations tried.
//
// Formula:
//
//	SR     = mean / stddev(n-1) * sqrt(n)
//	SR*    = SR * (1 + skew*SR/6 - (kurt-3)*SR^2/24)     kurt is excess kurtosis
//	sigma  = sqrt((1 - SR*^2) / (n-1))
//	SRmax  = SR* + sigma * Phi^-1(1 - 1/trials)            only when trials > 1
//	DSR    = Phi((SR - SRmax) / sigma)
//
// Args:
//
//	returns: Periodic returns
//	trials: Number of independent strategy variations tried (>= 1)
//
// Returns:
//
//	Probability in [0, 1], ErrInsufficientData for fewer than 2 observations,
//	ErrDegenerateSharpe when sigma cannot be computed. That includes n = 3, where
//	the sample excess kurtosis is undefined.
func CalculateDeflatedSharpeRatio(returns []float64, trials int) (float64, error) {
	n := len(returns)
	if n < 2 {
		return 0, ErrInsufficientData
	}

	mean, stdDev := stat.MeanStdDev(returns, nil)
	sr := mean / stdDev * math.Sqrt(float64(n))

	skew := stat.Skew(returns, nil)
	kurt := stat.ExKurtosis(returns, nil)

	srAdj := sr * (1 + skew*sr/6 - (kurt-3)*sr*sr/24)
	varSR := (1 - srAdj*srAdj) / float64(n-1)
	if !(varSR > 0) || math.IsInf(varSR, 0) {
		return 0, ErrDegenerateSharpe
	}
	sigma := math.Sqrt(varSR)

	z := 0.0
	if trials > 1 {
		z = distuv.UnitNormal.Quantile(1 - 1/float64(trials))
	}
	srMax := srAdj + sigma*z

	return distuv.UnitNormal.CDF((sr - srMax) / sigma), nil
}
