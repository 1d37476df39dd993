package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/timeseries"
)

func TestACF(t *testing.T) {
	series := ar1(500, 0.8, 1)
	acf := ACF(series, 10)
	require.Len(t, acf, 11)

	assert.InDelta(t, 1.0, acf[0], 1e-12)
	assert.InDelta(t, 0.8, acf[1], 0.1)
	assert.Greater(t, acf[1], acf[5])
}

func TestACFConstantSeries(t *testing.T) {
	assert.Nil(t, ACF(timeseries.New([]float64{3, 3, 3, 3}), 2))
}

func TestACFCapsLag(t *testing.T) {
	acf := ACF(timeseries.New([]float64{1, 2, 3, 4}), 10)
	assert.Len(t, acf, 4)
}

func TestPACF(t *testing.T) {
	series := ar1(1000, 0.7, 2)
	pacf := PACF(series, 10)
	require.Len(t, pacf, 11)

	assert.Equal(t, 1.0, pacf[0])
	assert.InDelta(t, 0.7, pacf[1], 0.08)
	for k := 2; k <= 10; k++ {
		assert.Less(t, math.Abs(pacf[k]), 0.15, "lag %d", k)
	}
}

func TestPACFMatchesYuleWalker(t *testing.T) {
	series := ar1(300, 0.5, 3)
	acf := ACF(series, 3)
	pacf := PACF(series, 3)

	phi, _ := YuleWalker(acf, 3)
	assert.InDelta(t, phi[2], pacf[3], 1e-10)
}

func TestACFWithConfidence(t *testing.T) {
	series := ar1(100, 0.6, 4)
	result := ACFWithConfidence(series, 20, 0.05)
	require.NotNil(t, result)

	assert.InDelta(t, 1.96/math.Sqrt(100), result.ConfBounds, 1e-3)
	assert.Equal(t, 0.0, result.Bands[0])
	assert.InDelta(t, result.ConfBounds, result.Bands[1], 1e-12)
	for k := 2; k < len(result.Bands); k++ {
		assert.GreaterOrEqual(t, result.Bands[k], result.Bands[k-1])
	}
	assert.Equal(t, 20, result.Lags[20])
}

func TestPACFWithConfidence(t *testing.T) {
	result := PACFWithConfidence(whiteNoise(400, 5), 10, 0.01)
	require.NotNil(t, result)
	assert.InDelta(t, 2.5758/20, result.ConfBounds, 1e-4)
	assert.Equal(t, 0.01, result.Alpha)
}

func TestSignificantLags(t *testing.T) {
	values := []float64{1.0, 0.5, 0.3, 0.1, 0.05, -0.2, -0.5}
	assert.Equal(t, []int{1, 2, 5, 6}, SignificantLags(values, 0.15))
	assert.Nil(t, SignificantLags(values, 0.9))
}

func TestYuleWalker(t *testing.T) {
	// Autocorrelations of the AR(2) process with phi = (0.5, 0.3).
	rho1 := 0.5 / 0.7
	rho2 := 0.5*rho1 + 0.3
	phi, ratio := YuleWalker([]float64{1, rho1, rho2}, 2)

	require.Len(t, phi, 2)
	assert.InDelta(t, 0.5, phi[0], 1e-12)
	assert.InDelta(t, 0.3, phi[1], 1e-12)
	assert.InDelta(t, (1-rho1*rho1)*(1-0.09), ratio, 1e-12)

	phi, ratio = YuleWalker([]float64{1, 0.2}, 2)
	assert.Nil(t, phi)
	assert.Equal(t, 1.0, ratio)
}
