package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRebalancingBounds(t *testing.T) {
	bounds := CalculateRebalancingBounds([]float64{30, 50, 20}, []float64{25, 50, 30}, 5)
	require.Len(t, bounds, 3)

	assert.Equal(t, RebalancingBound{Symbol: "Asset1", Current: 30, Target: 25, NeedsRebalancing: false}, bounds[0])
	assert.Equal(t, RebalancingBound{Symbol: "Asset2", Current: 50, Target: 50, NeedsRebalancing: false}, bounds[1])
	assert.Equal(t, RebalancingBound{Symbol: "Asset3", Current: 20, Target: 30, NeedsRebalancing: true}, bounds[2])
}

func TestCalculateRebalancingBounds_DefaultTolerance(t *testing.T) {
	bounds := CalculateRebalancingBounds([]float64{30.1, 40}, []float64{30, 40.04}, DefaultRebalanceTolerance)
	require.Len(t, bounds, 2)

	assert.True(t, bounds[0].NeedsRebalancing)
	assert.False(t, bounds[1].NeedsRebalancing)
}

func TestCalculateRebalancingBounds_MismatchedLengths(t *testing.T) {
	bounds := CalculateRebalancingBounds([]float64{10, 20, 70}, []float64{33, 33}, DefaultRebalanceTolerance)
	require.Len(t, bounds, 3)

	assert.True(t, bounds[0].NeedsRebalancing)
	assert.True(t, bounds[1].NeedsRebalancing)
	assert.Equal(t, "Asset3", bounds[2].Symbol)
	assert.Equal(t, 70.0, bounds[2].Current)
	assert.True(t, math.IsNaN(bounds[2].Target))
	assert.False(t, bounds[2].NeedsRebalancing)

	extra := CalculateRebalancingBounds([]float64{0.5}, []float64{0.5, 0.5}, DefaultRebalanceTolerance)
	assert.Len(t, extra, 1)

	assert.Empty(t, CalculateRebalancingBounds(nil, []float64{1}, DefaultRebalanceTolerance))
}
