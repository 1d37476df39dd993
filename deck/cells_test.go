package deck

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/selection"
	"github.com/sartorproj/tsdeck/stats"
)

func runCell(t *testing.T, s *Session, name string, args Args) []Block {
	t.Helper()
	cell, ok := Lookup(name)
	require.True(t, ok, name)
	blocks, err := cell(context.Background(), s, args)
	require.NoError(t, err)
	require.NotEmpty(t, blocks)
	return blocks
}

func requireFigure(t *testing.T, blocks []Block) {
	t.Helper()
	figures := blocksOf[Figure](blocks)
	require.Len(t, figures, 1)
	info, err := os.Stat(figures[0].Path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCellsNeedData(t *testing.T) {
	s := NewSession(testConfig(""), nil, nil)
	for _, name := range Cells() {
		if name == "load-data" || name == "references" {
			continue
		}
		cell, _ := Lookup(name)
		_, err := cell(context.Background(), s, Args{})
		assert.True(t, errors.Is(err, ErrNoData), name)
	}
}

func TestLoadDataCell(t *testing.T) {
	s := NewSession(testConfig(""), nil, nil)
	blocks := runCell(t, s, "load-data", Args{"column": "unemp"})

	assert.Equal(t, "unemp", s.Series.Name)
	assert.Contains(t, string(blocks[0].(Paragraph)), "1959Q1")
	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 6)

	notices := blocksOf[Notice](blocks)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Text, "simulated")
	assert.False(t, notices[0].Success)
}

func TestPlotSeriesCell(t *testing.T) {
	s := loadedSession(t, nil)
	blocks := runCell(t, s, "plot-series", Args{"window": "8"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 1)
	assert.Equal(t, "infl", tables[0].Rows[1][0])
	requireFigure(t, blocks)

	s.OutputDir = ""
	blocks = runCell(t, s, "plot-series", nil)
	assert.Empty(t, blocksOf[Figure](blocks))
}

func TestStationarityCell(t *testing.T) {
	rec := &memoryRecorder{}
	s := loadedSession(t, rec)
	blocks := runCell(t, s, "stationarity", Args{"diff": "1"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 3)
	assert.Len(t, blocksOf[Bullets](blocks)[0], 2)
	require.Len(t, blocksOf[Notice](blocks), 1)

	require.Len(t, rec.stationarity, 1)
	got := rec.stationarity[0]
	assert.Equal(t, "infl_diff", got.Column)
	assert.Equal(t, 1, got.Diffs)
	assert.Contains(t, []string{
		string(stats.Stationary), string(stats.NonStationary),
		string(stats.TrendStationary), string(stats.DifferenceStationary),
	}, got.Verdict)
}

func TestDifferenceCell(t *testing.T) {
	rec := &memoryRecorder{}
	s := loadedSession(t, rec)
	blocks := runCell(t, s, "difference", Args{"order": "1", "period": "4"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 2)
	assert.Len(t, tables[0].Rows, 5)
	requireFigure(t, blocks)

	require.Len(t, rec.stationarity, 1)
	assert.Equal(t, 1, rec.stationarity[0].Diffs)
	assert.Equal(t, 1, rec.stationarity[0].SeasonalDiffs)
	assert.Equal(t, 4, rec.stationarity[0].Period)
}

func TestDecomposeCell(t *testing.T) {
	s := loadedSession(t, nil)
	blocks := runCell(t, s, "decompose", Args{"column": "realgdp", "period": "4", "type": "multiplicative"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows[0], 5)
	requireFigure(t, blocks)

	cell, _ := Lookup("decompose")
	_, err := cell(context.Background(), s, Args{"type": "cubic"})
	assert.True(t, errors.Is(err, stats.ErrInvalidOption))
}

func TestCorrelogramCell(t *testing.T) {
	s := loadedSession(t, nil)
	blocks := runCell(t, s, "correlogram", Args{"lags": "10"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 11)
	assert.Len(t, blocksOf[Bullets](blocks)[0], 2)
	requireFigure(t, blocks)
}

func TestFitCell(t *testing.T) {
	rec := &memoryRecorder{}
	s := loadedSession(t, rec)
	blocks := runCell(t, s, "fit", Args{"order": "1,0,1", "steps": "4"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 3)
	assert.Len(t, tables[1].Rows[1], 7)
	assert.Equal(t, []string{"", "coef", "std err", "z", "P>|z|", "lower", "upper"}, tables[0].Rows[0])
	assert.Len(t, tables[0].Rows, 5) // const, ar.L1, ma.L1, sigma2
	assert.Len(t, tables[2].Rows, 5)
	requireFigure(t, blocks)

	require.Len(t, rec.fits, 1)
	assert.Equal(t, "(1,0,1)", rec.fits[0].Order)
	assert.Positive(t, rec.fits[0].NObs)
	assert.LessOrEqual(t, rec.fits[0].NObs, s.Series.Len())
}

func TestFitCellSavesForecast(t *testing.T) {
	s := loadedSession(t, nil)
	s.OutputDir = ""
	out := filepath.Join(t.TempDir(), "forecast.csv")
	blocks := runCell(t, s, "fit", Args{"order": "1,0,0", "steps": "3", "save": out})

	notices := blocksOf[Notice](blocks)
	require.NotEmpty(t, notices)
	assert.Contains(t, notices[len(notices)-1].Text, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "2009-10-01"), lines[1])
}

func TestBacktestCell(t *testing.T) {
	s := loadedSession(t, nil)
	blocks := runCell(t, s, "backtest", Args{"order": "1,0,0", "test": "8"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 3)
	assert.Contains(t, string(blocks[0].(Paragraph)), "last 8")
	requireFigure(t, blocks)

	cell, _ := Lookup("backtest")
	_, err := cell(context.Background(), s, Args{"test": "500"})
	assert.True(t, errors.Is(err, ErrInvalidArg))
}

func TestTransformArg(t *testing.T) {
	s := loadedSession(t, nil)
	s.OutputDir = ""
	blocks := runCell(t, s, "plot-series", Args{"column": "realgdp", "transform": "log"})
	assert.Equal(t, "realgdp_log", blocksOf[Table](blocks)[0].Rows[1][0])

	blocks = runCell(t, s, "plot-series", Args{"transform": "normalize", "diff": "1"})
	assert.Equal(t, "infl_normalized_diff", blocksOf[Table](blocks)[0].Rows[1][0])

	cell, _ := Lookup("plot-series")
	_, err := cell(context.Background(), s, Args{"transform": "sqrt"})
	assert.True(t, errors.Is(err, ErrInvalidArg))
}

func TestFitCellExog(t *testing.T) {
	s := loadedSession(t, nil)
	blocks := runCell(t, s, "fit", Args{"order": "1,0,0", "exog": "unemp", "steps": "0"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 2)
	assert.Equal(t, "unemp", tables[0].Rows[2][0])

	cell, _ := Lookup("fit")
	_, err := cell(context.Background(), s, Args{"order": "1,0,0", "exog": "unemp", "steps": "2"})
	assert.True(t, errors.Is(err, ErrInvalidArg))

	_, err = cell(context.Background(), s, Args{"order": "1,0"})
	assert.Error(t, err)
}

func TestOrderSelectCell(t *testing.T) {
	s := loadedSession(t, nil)
	blocks := runCell(t, s, "order-select", Args{"max_ar": "2", "max_ma": "1", "ic": "aic,bic"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 2)
	assert.Len(t, tables[0].Rows, 4)
	assert.Len(t, tables[0].Rows[0], 3)
	assert.Len(t, blocksOf[Bullets](blocks)[0], 2)

	cell, _ := Lookup("order-select")
	_, err := cell(context.Background(), s, Args{"ic": "mdl"})
	assert.True(t, errors.Is(err, selection.ErrUnknownCriterion))
}

func TestGridSearchCell(t *testing.T) {
	rec := &memoryRecorder{}
	s := loadedSession(t, rec)
	blocks := runCell(t, s, "grid-search", Args{"top": "3"})

	tables := blocksOf[Table](blocks)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 4)
	assert.Equal(t, "1", tables[0].Rows[1][0])

	notices := blocksOf[Notice](blocks)
	require.Len(t, notices, 1)
	assert.True(t, notices[0].Success)

	require.Len(t, rec.grids["aic"], 4)

	cell, _ := Lookup("grid-search")
	_, err := cell(context.Background(), s, Args{"p": "3:1"})
	assert.True(t, errors.Is(err, selection.ErrInvalidRange))

	_, err = cell(context.Background(), s, Args{"top": "-1"})
	assert.True(t, errors.Is(err, ErrInvalidArg))
}

func TestAutoARIMACell(t *testing.T) {
	s := loadedSession(t, nil)
	blocks := runCell(t, s, "auto-arima", Args{"period": "0"})

	notices := blocksOf[Notice](blocks)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Text, "SARIMAX(")
}

func TestReferencesCell(t *testing.T) {
	blocks := runCell(t, nil, "references", nil)
	assert.NotEmpty(t, blocks[0].(Bullets))
}
