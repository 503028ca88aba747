package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBeta(t *testing.T) {
	tests := []struct {
		name      string
		portfolio []float64
		benchmark []float64
		expected  float64
	}{
		{
			// cov sum 0.000825, var sum 0.001075, n-1 cancels: 33/43
			name:      "hand computed sample",
			portfolio: []float64{0.01, 0.02, -0.01, 0.03},
			benchmark: []float64{0.02, 0.01, -0.02, 0.02},
			expected:  33.0 / 43.0,
		},
		{
			name:      "identical series",
			portfolio: []float64{0.01, -0.02, 0.03},
			benchmark: []float64{0.01, -0.02, 0.03},
			expected:  1,
		},
		{
			name:      "double leverage",
			portfolio: []float64{0.02, -0.04, 0.06},
			benchmark: []float64{0.01, -0.02, 0.03},
			expected:  2,
		},
		{
			name:      "constant benchmark",
			portfolio: []float64{0.01, 0.02, 0.03},
			benchmark: []float64{0.5, 0.5, 0.5},
			expected:  0,
		},
		{
			name:      "longer portfolio is truncated from the start",
			portfolio: []float64{0.01, 0.02, -0.01, 0.03, 0.5, -0.5},
			benchmark: []float64{0.02, 0.01, -0.02, 0.02},
			expected:  33.0 / 43.0,
		},
		{
			name:      "empty series",
			portfolio: []float64{},
			benchmark: []float64{},
			expected:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateBeta(tt.portfolio, tt.benchmark), 1e-12)
		})
	}
}

func TestCalculateAlpha(t *testing.T) {
	// 15 - (10.5 + 1.2 * (12 - 10.5))
	assert.InDelta(t, 2.7, CalculateAlpha(15, 12, 1.2, DefaultRiskFreeRate), 1e-12)
	assert.InDelta(t, 0.0, CalculateAlpha(12, 12, 1, DefaultRiskFreeRate), 1e-12)
	assert.InDelta(t, 5.0, CalculateAlpha(15, 20, 0, 10), 1e-12)
}

func TestCalculateInformationRatio(t *testing.T) {
	portfolio := []float64{0.02, 0.01, 0.03, 0.00}
	benchmark := []float64{0.01, 0.01, 0.01, 0.01}

	// active [0.01, 0, 0.02, -0.01]: mean 0.005, tracking error sqrt(5e-4/3*252)
	assert.InDelta(t, 0.0243975018, CalculateInformationRatio(portfolio, benchmark), 1e-6)

	t.Run("zero tracking error", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateInformationRatio(portfolio, portfolio))
	})

	t.Run("truncates to common length", func(t *testing.T) {
		longer := append(append([]float64{}, portfolio...), 0.9, -0.9)
		assert.InDelta(t,
			CalculateInformationRatio(portfolio, benchmark),
			CalculateInformationRatio(longer, benchmark),
			1e-15)
	})
}

func TestCalculateCorrelation(t *testing.T) {
	series := []float64{0.01, -0.02, 0.015, 0.03, -0.005, 0.0}
	negated := make([]float64, len(series))
	for i, v := range series {
		negated[i] = -v
	}

	assert.InDelta(t, 1.0, CalculateCorrelation(series, series), 1e-12)
	assert.InDelta(t, -1.0, CalculateCorrelation(series, negated), 1e-12)
	assert.Equal(t, 0.0, CalculateCorrelation(series, makeReturns(0.25, len(series))))
	assert.Equal(t, 0.0, CalculateCorrelation(nil, nil))

	t.Run("truncates to common length", func(t *testing.T) {
		assert.InDelta(t, 1.0, CalculateCorrelation([]float64{1, 2, 3, 100}, []float64{1, 2, 3}), 1e-12)
	})

	t.Run("bounded", func(t *testing.T) {
		a := GenerateMockReturns(NewSeededSource(7), 100, DefaultAnnualVolatility, DefaultDrift)
		b := GenerateMockReturns(NewSeededSource(8), 100, DefaultAnnualVolatility, DefaultDrift)
		c := CalculateCorrelation(a, b)
		assert.GreaterOrEqual(t, c, -1.0)
		assert.LessOrEqual(t, c, 1.0)
	})
}

func TestCalculateCorrelationMatrix(t *testing.T) {
	a := []float64{0.01, -0.02, 0.015, 0.03}
	b := []float64{-0.01, 0.02, -0.015, -0.03}
	c := []float64{0.02, 0.01, -0.01, 0.0}

	matrix := CalculateCorrelationMatrix([][]float64{a, b, c})
	require.Len(t, matrix, 3)

	for i := range matrix {
		require.Len(t, matrix[i], 3)
		assert.InDelta(t, 1.0, matrix[i][i], 1e-12)
		for j := range matrix[i] {
			assert.Equal(t, matrix[i][j], matrix[j][i])
		}
	}
	assert.InDelta(t, -1.0, matrix[0][1], 1e-12)
	assert.Empty(t, CalculateCorrelationMatrix(nil))
}
