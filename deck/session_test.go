package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/dataset"
	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/stats"
)

func TestSessionLoadSample(t *testing.T) {
	s := NewSession(testConfig(""), nil, nil)
	require.NotNil(t, s.Recorder)

	_, err := s.series("", 0)
	require.True(t, errors.Is(err, ErrNoData))

	require.NoError(t, s.LoadData("", "infl"))
	require.NotNil(t, s.Frame)
	assert.Equal(t, "infl", s.Series.Name)
	assert.Equal(t, dataset.Sample().Len(), s.Series.Len())

	other, err := s.series("unemp", 1)
	require.NoError(t, err)
	assert.Equal(t, s.Series.Len()-1, other.Len())

	_, err = s.series("missing", 0)
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn))

	assert.Error(t, s.LoadData("", "missing"))
}

func TestSessionLoadQuarterlyCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macro.csv")
	data := "year,quarter,gdp\n2000,1,1.0\n2000,2,1.5\n2000,3,1.2\n2000,4,1.8\n2001,1,2.0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s := NewSession(testConfig(""), nil, nil)
	require.NoError(t, s.LoadData(path, "gdp"))
	require.NotNil(t, s.Frame)
	assert.Equal(t, []float64{1.0, 1.5, 1.2, 1.8, 2.0}, s.Series.Values)
}

func TestSessionLoadDatedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily.csv")
	data := "date,y\n2024-01-01,3\n2024-01-02,4\n2024-01-03,5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s := NewSession(testConfig(""), nil, nil)
	require.NoError(t, s.LoadData(path, "y"))
	assert.Nil(t, s.Frame)
	assert.Equal(t, []float64{3, 4, 5}, s.Series.Values)

	_, err := s.series("other", 0)
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn))
}

func TestSessionFigure(t *testing.T) {
	s := NewSession(testConfig(""), nil, nil)
	path, err := s.figure("x")
	require.NoError(t, err)
	assert.Empty(t, path)

	dir := filepath.Join(t.TempDir(), "nested")
	s.OutputDir, s.Format = dir, "svg"
	path, err = s.figure("x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x.svg"), path)
	assert.DirExists(t, dir)
}

func TestSessionAlpha(t *testing.T) {
	s := &Session{Alpha: 0.1}
	assert.Equal(t, 0.1, s.alpha())
	s.Alpha = 0
	assert.Equal(t, stats.DefaultAlpha, s.alpha())
}
