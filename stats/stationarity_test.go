package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/timeseries"
)

func TestMacKinnonPValue(t *testing.T) {
	tests := []struct {
		name       string
		stat       float64
		regression string
		want       float64
	}{
		{"c 5%", -2.86154, "c", 0.05001},
		{"c 1%", -3.43035, "c", 0.00997},
		{"ct 5%", -3.41049, "ct", 0.05000},
		{"c large p", -1.0, "c", 0.75326},
		{"above max", 3, "c", 1},
		{"below min", -25, "ct", 0},
		{"unknown regression uses c", -2.86154, "x", 0.05001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MacKinnonPValue(tt.stat, tt.regression), 1e-4)
		})
	}
}

func TestMacKinnonPValueContinuousAtStar(t *testing.T) {
	for reg, star := range tauStar {
		below := MacKinnonPValue(star, reg)
		above := MacKinnonPValue(star+1e-9, reg)
		assert.InDelta(t, below, above, 0.01, reg)
	}
}

func TestMacKinnonCriticalValues(t *testing.T) {
	cv := MacKinnonCriticalValues("c", 100)
	assert.InDelta(t, -2.890906, cv["5%"], 1e-6)
	assert.Less(t, cv["1%"], cv["5%"])
	assert.Less(t, cv["5%"], cv["10%"])

	asymptotic := MacKinnonCriticalValues("ct", 1e9)
	assert.InDelta(t, -3.41049, asymptotic["5%"], 1e-6)
}

func TestADFStationary(t *testing.T) {
	result, err := ADF(ar1(200, 0.5, 30), ADFOptions{})
	require.NoError(t, err)

	t.Logf("ADF stat=%.4f p=%.4g lag=%d nobs=%d", result.Statistic, result.PValue, result.UsedLag, result.NObs)
	assert.Less(t, result.Statistic, result.CriticalValues["1%"])
	assert.True(t, result.IsStationary(0.05))
	assert.Equal(t, "c", result.Regression)
	assert.Equal(t, AutoLagAIC, result.AutoLag)
	assert.False(t, math.IsNaN(result.ICBest))
	assert.Equal(t, 199-result.UsedLag, result.NObs)
}

func TestADFRandomWalkWithDrift(t *testing.T) {
	result, err := ADF(randomWalk(200, 0.5, 31), ADFOptions{Regression: "c"})
	require.NoError(t, err)

	t.Logf("ADF stat=%.4f p=%.4g", result.Statistic, result.PValue)
	assert.False(t, result.IsStationary(0.05))
}

func TestADFFixedLag(t *testing.T) {
	series := ar1(120, 0.3, 32)
	result, err := ADF(series, ADFOptions{MaxLag: 4, AutoLag: AutoLagNone, Regression: "ct"})
	require.NoError(t, err)

	assert.Equal(t, 4, result.UsedLag)
	assert.Equal(t, 120-1-4, result.NObs)
	assert.True(t, math.IsNaN(result.ICBest))
	assert.Len(t, result.CriticalValues, 3)
}

func TestADFLagSelectionMethods(t *testing.T) {
	series := ar1(150, 0.6, 33)
	for _, method := range []string{AutoLagAIC, AutoLagBIC, AutoLagTStat} {
		t.Run(method, func(t *testing.T) {
			result, err := ADF(series, ADFOptions{MaxLag: 6, AutoLag: method})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.UsedLag, 0)
			assert.LessOrEqual(t, result.UsedLag, 6)
		})
	}
}

func TestADFErrors(t *testing.T) {
	_, err := ADF(ar1(50, 0.5, 34), ADFOptions{Regression: "ctt"})
	assert.True(t, errors.Is(err, ErrInvalidOption))

	_, err = ADF(ar1(50, 0.5, 34), ADFOptions{AutoLag: "hqic"})
	assert.True(t, errors.Is(err, ErrInvalidOption))

	_, err = ADF(timeseries.New([]float64{1, 2, 3}), ADFOptions{})
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = ADF(timeseries.New([]float64{1, math.NaN(), 3, 4, 5, 6, 7, 8, 9, 10}), ADFOptions{})
	assert.True(t, errors.Is(err, timeseries.ErrMissingValue))
}

func TestKPSSHandComputed(t *testing.T) {
	values := []float64{1, -1, 1, -1, 1, -1, 1, -1, 1, -1}
	result, err := KPSS(timeseries.New(values), KPSSOptions{LagMethod: KPSSLagsFixed, Lags: 0})
	require.NoError(t, err)

	// Partial sums alternate 1, 0 so eta = 5/100 and the variance is 1.
	assert.InDelta(t, 0.05, result.Statistic, 1e-12)
	assert.Equal(t, 0.10, result.PValue)
	assert.True(t, result.PValueClipped)
	assert.True(t, result.IsStationary(0.05))
	assert.Equal(t, 0.574, result.CriticalValues["2.5%"])
}

func TestKPSSTrendRejects(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	result, err := KPSS(timeseries.New(values), KPSSOptions{})
	require.NoError(t, err)

	assert.Greater(t, result.Statistic, 0.739)
	assert.Equal(t, 0.01, result.PValue)
	assert.True(t, result.PValueClipped)
	assert.False(t, result.IsStationary(0.05))
}

func TestKPSSTrendRegressionOnLine(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	_, err := KPSS(timeseries.New(values), KPSSOptions{Regression: "ct"})
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestKPSSLagMethods(t *testing.T) {
	series := ar1(100, 0.5, 40)

	legacy, err := KPSS(series, KPSSOptions{LagMethod: KPSSLagsLegacy})
	require.NoError(t, err)
	assert.Equal(t, 12, legacy.Lags)

	auto, err := KPSS(series, KPSSOptions{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, auto.Lags, 0)
	assert.Less(t, auto.Lags, 100)

	_, err = KPSS(series, KPSSOptions{LagMethod: KPSSLagsFixed, Lags: 100})
	assert.True(t, errors.Is(err, ErrInvalidOption))

	_, err = KPSS(series, KPSSOptions{LagMethod: "andrews"})
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestInterpolatePValue(t *testing.T) {
	p, clipped := interpolatePValue(0.4, kpssCritLevel, kpssPValues)
	assert.False(t, clipped)
	assert.InDelta(t, 0.10-0.053/0.116*0.05, p, 1e-12)

	p, clipped = interpolatePValue(2, kpssCritLevel, kpssPValues)
	assert.True(t, clipped)
	assert.Equal(t, 0.01, p)
}

func TestLongRunVariance(t *testing.T) {
	assert.InDelta(t, 0.25, longRunVariance([]float64{1, -1, 1, -1}, 1), 1e-12)
	assert.InDelta(t, 1.0, longRunVariance([]float64{1, -1, 1, -1}, 0), 1e-12)
}

func TestPhillipsPerron(t *testing.T) {
	result, err := PhillipsPerron(whiteNoise(300, 50), 0)
	require.NoError(t, err)

	t.Logf("PP stat=%.4f p=%.4g", result.Statistic, result.PValue)
	assert.True(t, result.IsStationary(0.01))
	assert.Equal(t, 16, result.Lags)

	_, err = PhillipsPerron(timeseries.New([]float64{1, 2, 3}), 0)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}
