package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRollingVolatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.01, -0.01}

	rolling := CalculateRollingVolatility(returns, 2)
	require.Len(t, rolling, 3)

	// Population stddev of {0.01, -0.01} is 0.01.
	expected := 0.01 * math.Sqrt(TradingDaysPerYear) * 100
	for _, v := range rolling {
		assert.InDelta(t, expected, v, 1e-6)
	}
}

func TestCalculateRollingVolatility_ConstantWindow(t *testing.T) {
	rolling := CalculateRollingVolatility(makeReturns(0.25, 6), 3)
	require.Len(t, rolling, 4)
	for _, v := range rolling {
		assert.Equal(t, 0.0, v)
	}
}

func TestCalculateRollingVolatility_InvalidWindow(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.02}

	assert.Empty(t, CalculateRollingVolatility(returns, 1))
	assert.Empty(t, CalculateRollingVolatility(returns, 4))
	assert.Len(t, CalculateRollingVolatility(returns, 3), 1)
}
