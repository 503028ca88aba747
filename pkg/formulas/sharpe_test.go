package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSharpeRatio(t *testing.T) {
	assert.InDelta(t, 1.0, CalculateSharpeRatio(20.5, 10, DefaultRiskFreeRate), 1e-12)
	assert.InDelta(t, -0.5, CalculateSharpeRatio(5.5, 10, DefaultRiskFreeRate), 1e-12)
	assert.InDelta(t, 2.0, CalculateSharpeRatio(20, 10, 0), 1e-12)
}

func TestCalculateSharpeRatio_ZeroVolatility(t *testing.T) {
	// A constant series has exactly zero volatility and the ratio is left to IEEE-754.
	volatility := CalculateVolatility(makeReturns(0.125, 20))
	assert.Equal(t, 0.0, volatility)

	assert.True(t, math.IsInf(CalculateSharpeRatio(15, volatility, DefaultRiskFreeRate), 1))
	assert.True(t, math.IsInf(CalculateSharpeRatio(5, volatility, DefaultRiskFreeRate), -1))
	assert.True(t, math.IsNaN(CalculateSharpeRatio(DefaultRiskFreeRate, volatility, DefaultRiskFreeRate)))
}

func TestCalculateSortinoRatio(t *testing.T) {
	tests := []struct {
		name         string
		returns      []float64
		riskFreeRate float64
		expected     float64
	}{
		{
			name:         "mixed returns without risk-free rate",
			returns:      []float64{0.02, -0.01, 0.03, -0.02},
			riskFreeRate: 0,
			expected:     5.019960159204453, // 0.005*252 / sqrt(2.5e-4*252)
		},
		{
			name:         "no downside returns zero",
			returns:      []float64{0.05, 0.06, 0.07},
			riskFreeRate: DefaultRiskFreeRate,
			expected:     0,
		},
		{
			name:         "empty series has no downside",
			returns:      []float64{},
			riskFreeRate: DefaultRiskFreeRate,
			expected:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateSortinoRatio(tt.returns, tt.riskFreeRate), 1e-9)
		})
	}
}

func TestCalculateSortinoRatio_RiskFreeIsPerPeriod(t *testing.T) {
	// 10.5/252 per period turns every small positive return into a downside observation.
	result := CalculateSortinoRatio([]float64{0.01, 0.02, 0.03}, DefaultRiskFreeRate)
	assert.Less(t, result, 0.0)
}

func TestCalculateCalmarRatio(t *testing.T) {
	assert.InDelta(t, 0.5, CalculateCalmarRatio(12, 24), 1e-12)
	assert.InDelta(t, 0.5, CalculateCalmarRatio(12, -24), 1e-12)
	assert.Equal(t, 0.0, CalculateCalmarRatio(12, 0))
}
