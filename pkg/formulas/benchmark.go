package formulas

import "math"

// alignSeries truncates both series to the shorter length, keeping the leading observations.
func alignSeries(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[:n], b[:n]
}

// CalculateBeta calculates beta relative to a benchmark
//
// Beta Formula:
//
//	Beta = Cov(portfolio, benchmark) / Var(benchmark)
//
// Both moments use the n-1 divisor. The series are aligned from the start and
// truncated to the shorter length.
//
// Returns:
//
//	Beta, or 0 when the benchmark has zero variance
func CalculateBeta(portfolioReturns, benchmarkReturns []float64) float64 {
	portfolio, benchmark := alignSeries(portfolioReturns, benchmarkReturns)
	n := len(benchmark)

	benchMean := Mean(benchmark)
	portMean := Mean(portfolio)

	covariance := 0.0
	benchVariance := 0.0
	for i := 0; i < n; i++ {
		benchDiff := benchmark[i] - benchMean
		portDiff := portfolio[i] - portMean

		covariance += benchDiff * portDiff
		benchVariance += benchDiff * benchDiff
	}

	covariance /= float64(n - 1)
	benchVariance /= float64(n - 1)

	if benchVariance == 0 {
		return 0
	}
	return covariance / benchVariance
}

// CalculateAlpha calculates Jensen's alpha in percent.
//
// Formula: Alpha = Rp - (Rf + Beta * (Rb - Rf))
func CalculateAlpha(portfolioReturn, benchmarkReturn, beta, riskFreeRate float64) float64 {
	return portfolioReturn - (riskFreeRate + beta*(benchmarkReturn-riskFreeRate))
}

// CalculateInformationRatio calculates the ratio of mean active return to tracking error.
//
// The tracking error is CalculateVolatility of the active series divided by 100,
// so the numerator is a daily mean and the denominator an annualized fraction.
// A zero tracking error yields 0.
func CalculateInformationRatio(portfolioReturns, benchmarkReturns []float64) float64 {
	portfolio, benchmark := alignSeries(portfolioReturns, benchmarkReturns)

	activeReturns := make([]float64, len(portfolio))
	for i := range portfolio {
		activeReturns[i] = portfolio[i] - benchmark[i]
	}

	meanActiveReturn := Mean(activeReturns)
	trackingError := CalculateVolatility(activeReturns) / 100

	if trackingError == 0 {
		return 0
	}
	return meanActiveReturn / trackingError
}

// CalculateCorrelation calculates the Pearson correlation coefficient between two series
// aligned from the start. Returns 0 when either series has zero variance.
func CalculateCorrelation(returns1, returns2 []float64) float64 {
	r1, r2 := alignSeries(returns1, returns2)

	mean1 := Mean(r1)
	mean2 := Mean(r2)

	numerator := 0.0
	sum1Sq := 0.0
	sum2Sq := 0.0
	for i := range r1 {
		diff1 := r1[i] - mean1
		diff2 := r2[i] - mean2

		numerator += diff1 * diff2
		sum1Sq += diff1 * diff1
		sum2Sq += diff2 * diff2
	}

	denominator := math.Sqrt(sum1Sq * sum2Sq)
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// CalculateCorrelationMatrix returns the pairwise correlation of every series with every other.
// The diagonal is 1 for non-constant series.
func CalculateCorrelationMatrix(series [][]float64) [][]float64 {
	matrix := make([][]float64, len(series))
	for i := range series {
		matrix[i] = make([]float64, len(series))
	}

	for i := range series {
		for j := i; j < len(series); j++ {
			c := CalculateCorrelation(series[i], series[j])
			matrix[i][j] = c
			matrix[j][i] = c
		}
	}

	return matrix
}
