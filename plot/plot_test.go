package plot

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/dataset"
	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/sarimax"
	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

func sampleSeries(t *testing.T, column string) *timeseries.Series {
	t.Helper()
	s, err := dataset.Sample().Series(column)
	require.NoError(t, err)
	return s
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSegments(t *testing.T) {
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{base, base.AddDate(0, 3, 0), base.AddDate(0, 6, 0), base.AddDate(0, 9, 0), base.AddDate(1, 0, 0)}
	segs := segments(ts, []float64{1, 2, math.NaN(), 4, math.Inf(1)})

	require.Len(t, segs, 2)
	assert.Len(t, segs[0], 2)
	assert.Len(t, segs[1], 1)
	assert.Equal(t, float64(base.Unix()), segs[0][0].X)
	assert.Equal(t, 4.0, segs[1][0].Y)

	assert.Empty(t, segments(ts[:1], []float64{math.NaN()}))
}

func TestSeriesPlot(t *testing.T) {
	dir := t.TempDir()
	infl := sampleSeries(t, "infl")
	realint := sampleSeries(t, "realint")

	for _, name := range []string{"series.png", "series.svg", "nested/dir/series.jpg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SeriesPlot(path, "Inflation and real interest", infl, realint))
		requireFile(t, path)
	}
}

func TestSeriesPlotErrors(t *testing.T) {
	dir := t.TempDir()
	infl := sampleSeries(t, "infl")

	err := SeriesPlot(filepath.Join(dir, "series.bmp"), "x", infl)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	err = SeriesPlot(filepath.Join(dir, "series.png"), "x")
	assert.True(t, errors.Is(err, ErrNoData))

	empty := timeseries.New([]float64{math.NaN(), math.NaN()})
	err = SeriesPlot(filepath.Join(dir, "empty.png"), "x", empty)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestRollingPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolling.png")
	require.NoError(t, RollingPlot(path, sampleSeries(t, "infl"), 12))
	requireFile(t, path)
}

func TestCorrelogramPlot(t *testing.T) {
	infl := sampleSeries(t, "infl")
	acf := stats.ACFWithConfidence(infl, 20, 0.05)
	pacf := stats.PACFWithConfidence(infl, 20, 0.05)

	for _, name := range []string{"correlogram.png", "correlogram.svg"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, CorrelogramPlot(path, "infl", acf, pacf))
		requireFile(t, path)
	}

	err := CorrelogramPlot(filepath.Join(t.TempDir(), "c.png"), "infl", nil, pacf)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestForecastPlot(t *testing.T) {
	infl := sampleSeries(t, "infl")
	model := sarimax.New(sarimax.Order{P: 1}, sarimax.SeasonalOrder{})
	require.NoError(t, model.Fit(context.Background(), infl))
	fc, err := model.Forecast(8, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "forecast.png")
	require.NoError(t, ForecastPlot(path, "AR(1) forecast", infl, model.FittedValues(), fc))
	requireFile(t, path)

	path = filepath.Join(t.TempDir(), "forecast.svg")
	require.NoError(t, ForecastPlot(path, "AR(1) forecast", infl, nil, fc))
	requireFile(t, path)

	err = ForecastPlot(path, "x", infl, nil, nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestDecompositionPlot(t *testing.T) {
	dec, err := stats.Decompose(sampleSeries(t, "realgdp"), 4, stats.Additive)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "decomposition.png")
	require.NoError(t, DecompositionPlot(path, dec))
	requireFile(t, path)

	err = DecompositionPlot(path, nil)
	assert.True(t, errors.Is(err, ErrNoData))
}
