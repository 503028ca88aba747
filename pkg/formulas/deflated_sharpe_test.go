package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeatSeries(pattern []float64, times int) []float64 {
	series := make([]float64, 0, len(pattern)*times)
	for i := 0; i < times; i++ {
		series = append(series, pattern...)
	}
	return series
}

func TestCalculateDeflatedSharpeRatio(t *testing.T) {
	returns := repeatSeries([]float64{0.01, -0.02, 0.015, -0.005, 0.005}, 20)

	single, err := CalculateDeflatedSharpeRatio(returns, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, single, 0.0)
	assert.LessOrEqual(t, single, 1.0)

	many, err := CalculateDeflatedSharpeRatio(returns, 100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, many, 0.0)
	assert.LessOrEqual(t, many, 1.0)

	// More trials raise the bar the observed Sharpe has to clear.
	assert.Less(t, many, single)
}

func TestCalculateDeflatedSharpeRatio_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		returns  []float64
		trials   int
		expected float64
	}{
		{"four observations single trial", []float64{0.01, 0.02, -0.01, 0.015}, 1, 0.998869090087},
		{"repeated pattern hundred trials", repeatSeries([]float64{0.01, -0.02, 0.015, -0.005, 0.005}, 20), 100, 0.004309735465},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateDeflatedSharpeRatio(tt.returns, tt.trials)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestCalculateDeflatedSharpeRatio_ThreeObservations(t *testing.T) {
	// Sample excess kurtosis is undefined below four observations.
	_, err := CalculateDeflatedSharpeRatio([]float64{0.01, 0.02, -0.01}, 1)
	assert.ErrorIs(t, err, ErrDegenerateSharpe)
}

func TestCalculateDeflatedSharpeRatio_RequiresObservations(t *testing.T) {
	_, err := CalculateDeflatedSharpeRatio([]float64{0.01}, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateDeflatedSharpeRatio(nil, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateDeflatedSharpeRatio_ConstantReturns(t *testing.T) {
	_, err := CalculateDeflatedSharpeRatio(makeReturns(0.125, 10), 1)
	assert.ErrorIs(t, err, ErrDegenerateSharpe)
}
