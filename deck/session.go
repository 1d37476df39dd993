package deck

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sartorproj/tsdeck/dataset"
	"github.com/sartorproj/tsdeck/internal/config"
	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/internal/recorder"
	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

// ErrNoData is returned by cells that run before any data is loaded.
var ErrNoData = errors.New("no data loaded")

// Session is the state shared by the cells of one presentation: the loaded
// data, the active series and the run-wide settings.
type Session struct {
	Frame  *dataset.Frame     // nil when the data has no year/quarter index
	Series *timeseries.Series // active series

	DataPath string
	Column   string

	OutputDir string // figures are skipped when empty
	Format    string // png, svg or jpg

	Alpha     float64
	Lags      int
	Steps     int
	Selection config.SelectionConfig

	Recorder recorder.Recorder
	Logger   *zap.SugaredLogger
}

// NewSession builds a session from configuration. The data is loaded by
// the load-data cell or by LoadData.
func NewSession(cfg *config.Config, rec recorder.Recorder, logger *zap.SugaredLogger) *Session {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{
		DataPath:  cfg.Data.Path,
		Column:    cfg.Data.Column,
		OutputDir: cfg.Output.Dir,
		Format:    cfg.Output.Format,
		Alpha:     cfg.Analysis.Alpha,
		Lags:      cfg.Analysis.Lags,
		Steps:     cfg.Analysis.Steps,
		Selection: cfg.Selection,
		Recorder:  rec,
		Logger:    logger,
	}
}

// LoadData loads path (the bundled sample when empty) and activates column.
// A CSV without year and quarter columns is read as a single dated series.
func (s *Session) LoadData(path, column string) error {
	if path == "" {
		frame := dataset.Sample()
		series, err := frame.Series(column)
		if err != nil {
			return err
		}
		s.Frame, s.Series = frame, series
		s.DataPath, s.Column = path, column
		return nil
	}

	frame, err := dataset.LoadCSV(path)
	if err == nil && frame.Has("year") && frame.Has("quarter") {
		series, err := frame.Series(column)
		if err != nil {
			return err
		}
		s.Frame, s.Series = frame, series
		s.DataPath, s.Column = path, column
		return nil
	}

	s.Logger.Debugw("No quarterly index, reading a dated column", "path", path, "reason", err)
	series, serr := timeseries.LoadCSVColumn(path, column)
	if serr != nil {
		if err != nil {
			return errors.Wrapf(serr, "load %s (as a table: %v)", path, err)
		}
		return serr
	}
	if series.Name == "" {
		series.Name = column
	}
	s.Frame, s.Series = nil, series
	s.DataPath, s.Column = path, column
	return nil
}

// series returns the named column, or the active series when column is
// empty, differenced diff times.
func (s *Session) series(column string, diff int) (*timeseries.Series, error) {
	if s.Series == nil {
		return nil, errors.WithHint(ErrNoData, "run the load-data cell first")
	}
	out := s.Series
	if column != "" && column != s.Series.Name {
		if s.Frame == nil {
			return nil, errors.Wrapf(dataset.ErrMissingColumn, "%q (only %q is loaded)", column, s.Series.Name)
		}
		var err error
		if out, err = s.Frame.Series(column); err != nil {
			return nil, err
		}
	}
	if diff > 0 {
		out = out.DiffN(diff)
	}
	return out, nil
}

// figure returns the output path for a figure named name, or "" when
// figures are disabled.
func (s *Session) figure(name string) (string, error) {
	if s.OutputDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", s.OutputDir)
	}
	format := s.Format
	if format == "" {
		format = "png"
	}
	return filepath.Join(s.OutputDir, name+"."+format), nil
}

func (s *Session) alpha() float64 {
	if s.Alpha <= 0 || s.Alpha >= 1 {
		return stats.DefaultAlpha
	}
	return s.Alpha
}
