package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/timeseries"
)

func TestNDiffs(t *testing.T) {
	assert.Equal(t, 0, NDiffs(ar1(200, 0.3, 70), 2, "adf"))
	assert.Equal(t, 1, NDiffs(randomWalk(200, 0.5, 71), 2, "adf"))

	trend := make([]float64, 100)
	for i := range trend {
		trend[i] = float64(i)
	}
	// The trend is removed by one difference, leaving a constant.
	d := NDiffs(timeseries.New(trend), 2, "kpss")
	t.Logf("linear trend ndiffs: %d", d)
	assert.GreaterOrEqual(t, d, 1)
}

func TestNDiffsShortSeries(t *testing.T) {
	assert.Equal(t, 0, NDiffs(timeseries.New([]float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89}), 2, "kpss"))
}

func seasonalSeries(n int) *timeseries.Series {
	pattern := []float64{2, -1, 0.5, -1.5}
	values := make([]float64, n)
	for i := range values {
		values[i] = 10 + 0.5*float64(i) + pattern[i%4]
	}
	return timeseries.New(values)
}

func TestNSDiffs(t *testing.T) {
	assert.Equal(t, 1, NSDiffs(seasonalSeries(40), 4, 1))

	line := make([]float64, 40)
	for i := range line {
		line[i] = float64(i)
	}
	assert.Equal(t, 0, NSDiffs(timeseries.New(line), 4, 1))
	assert.Equal(t, 0, NSDiffs(seasonalSeries(6), 4, 1))
}

func TestSeasonalStrength(t *testing.T) {
	assert.InDelta(t, 1.0, seasonalStrength(seasonalSeries(40), 4), 1e-9)
}

func TestVariance(t *testing.T) {
	assert.InDelta(t, 2.5, variance([]float64{1, 2, math.NaN(), 3, 4, 5}), 1e-12)
	assert.Equal(t, 0.0, variance([]float64{1, math.NaN()}))
}

func TestAICc(t *testing.T) {
	assert.InDelta(t, 206+24.0/46, AICc(206, 50, 3), 1e-12)
	assert.True(t, math.IsInf(AICc(10, 4, 3), 1))
}

func TestCalculateIC(t *testing.T) {
	ic := CalculateIC(-100, 50, 3)
	require.NotNil(t, ic)

	assert.InDelta(t, 206, ic.AIC, 1e-12)
	assert.InDelta(t, 200+3*math.Log(50), ic.BIC, 1e-12)
	assert.InDelta(t, 200+6*math.Log(math.Log(50)), ic.HQIC, 1e-12)
	assert.InDelta(t, 206+24.0/46, ic.AICc, 1e-12)

	for _, name := range []string{"aic", "aicc", "bic", "hqic"} {
		v, ok := ic.Criterion(name)
		assert.True(t, ok, name)
		assert.False(t, math.IsNaN(v), name)
	}
	_, ok := ic.Criterion("mdl")
	assert.False(t, ok)
}
