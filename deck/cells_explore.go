package deck

import (
	"context"
	"fmt"
	"math"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/plot"
	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

func loadDataCell(_ context.Context, s *Session, args Args) ([]Block, error) {
	path := args.String("path", s.DataPath)
	column := args.String("column", s.Column)
	if err := s.LoadData(path, column); err != nil {
		return nil, err
	}

	source := "the simulated sample"
	if path != "" {
		source = path
	}
	series := s.Series
	n := series.Len()
	blocks := []Block{Paragraph(fmt.Sprintf("%d observations of %s from %s to %s, read from %s.",
		n, series.Name, dateLabel(s, series.Timestamps[0]), dateLabel(s, series.Timestamps[n-1]), source))}
	if path == "" {
		blocks = append(blocks, Notice{Text: "simulated data shaped like the US quarterly macro table; load the published CSV with --data for real results"})
	}

	if s.Frame != nil {
		blocks = append(blocks, Table{Caption: "First rows", Rows: s.Frame.Head(5)})
	}
	s.Logger.Infow("Data loaded", "source", source, "column", series.Name, "nobs", n)
	return blocks, nil
}

func describe(series *timeseries.Series) Table {
	return Table{
		Caption: "Summary statistics",
		Rows: [][]string{
			{"series", "n", "mean", "std", "min", "median", "max"},
			{series.Name, fmt.Sprint(series.Len()), f4(series.Mean()), f4(series.Std()),
				f4(series.Min()), f4(series.Median()), f4(series.Max())},
		},
	}
}

// input resolves the column, transform and diff arguments shared by the
// analysis cells.
func (s *Session) input(args Args) (*timeseries.Series, int, error) {
	diff, err := args.Int("diff", 0)
	if err != nil {
		return nil, 0, err
	}
	series, err := s.series(args.String("column", ""), 0)
	if err != nil {
		return nil, 0, err
	}
	switch t := args.String("transform", ""); t {
	case "", "none":
	case "log":
		series = series.Log()
	case "normalize":
		series = series.Normalize()
	default:
		return nil, 0, errors.WithHint(errors.Wrapf(ErrInvalidArg, "transform=%q", t), "use log or normalize")
	}
	if diff > 0 {
		series = series.DiffN(diff)
	}
	return series, diff, nil
}

func plotSeriesCell(_ context.Context, s *Session, args Args) ([]Block, error) {
	window, err := args.Int("window", 0)
	if err != nil {
		return nil, err
	}
	series, _, err := s.input(args)
	if err != nil {
		return nil, err
	}

	blocks := []Block{describe(series)}
	path, err := s.figure("series-" + series.Name)
	if err != nil || path == "" {
		return blocks, err
	}
	if window > 1 {
		err = plot.RollingPlot(path, series, window)
	} else {
		err = plot.SeriesPlot(path, series.Name, series)
	}
	if err != nil {
		return nil, err
	}
	return append(blocks, Figure{Path: path, Caption: series.Name}), nil
}

func correlogramCell(_ context.Context, s *Session, args Args) ([]Block, error) {
	lags, err := args.Int("lags", s.Lags)
	if err != nil {
		return nil, err
	}
	series, _, err := s.input(args)
	if err != nil {
		return nil, err
	}

	acf := stats.ACFWithConfidence(series, lags, s.alpha())
	pacf := stats.PACFWithConfidence(series, lags, s.alpha())
	if acf == nil || pacf == nil {
		return nil, errors.Newf("autocorrelations of %s are undefined (constant or too short)", series.Name)
	}

	rows := [][]string{{"lag", "acf", "bartlett band", "pacf", "bound"}}
	for k := 1; k < len(acf.Values) && k < len(pacf.Values); k++ {
		mark := func(v, b float64) string {
			if math.Abs(v) > b {
				return f4(v) + " *"
			}
			return f4(v)
		}
		rows = append(rows, []string{
			fmt.Sprint(k),
			mark(acf.Values[k], acf.Bands[k]),
			f4(acf.Bands[k]),
			mark(pacf.Values[k], pacf.ConfBounds),
			f4(pacf.ConfBounds),
		})
	}

	blocks := []Block{
		Table{Caption: fmt.Sprintf("ACF and PACF of %s (* outside the %.0f%% band)", series.Name, 100*(1-s.alpha())), Rows: rows},
		Bullets{
			"significant PACF lags: " + joinInts(stats.SignificantLags(pacf.Values, pacf.ConfBounds)),
			"ACF lags outside the white-noise bound: " + joinInts(stats.SignificantLags(acf.Values, acf.ConfBounds)),
		},
	}

	path, err := s.figure("correlogram-" + series.Name)
	if err != nil || path == "" {
		return blocks, err
	}
	if err := plot.CorrelogramPlot(path, series.Name, acf, pacf); err != nil {
		return nil, err
	}
	return append(blocks, Figure{Path: path, Caption: "correlogram of " + series.Name}), nil
}

func decomposeCell(_ context.Context, s *Session, args Args) ([]Block, error) {
	period, err := args.Int("period", 4)
	if err != nil {
		return nil, err
	}
	series, err := s.series(args.String("column", ""), 0)
	if err != nil {
		return nil, err
	}
	kind := stats.DecompositionType(args.String("type", string(stats.Additive)))
	dec, err := stats.Decompose(series, period, kind)
	if err != nil {
		return nil, err
	}

	header := make([]string, 0, period+1)
	values := make([]string, 0, period+1)
	header = append(header, "position")
	values = append(values, "seasonal index")
	for i := 0; i < period; i++ {
		header = append(header, fmt.Sprint(i+1))
		values = append(values, f4(dec.Seasonal.Values[i]))
	}
	blocks := []Block{
		Paragraph(fmt.Sprintf("%s decomposition of %s with period %d.", kind, series.Name, period)),
		Table{Caption: "Seasonal pattern", Rows: [][]string{header, values}},
	}

	path, err := s.figure("decomposition-" + series.Name)
	if err != nil || path == "" {
		return blocks, err
	}
	if err := plot.DecompositionPlot(path, dec); err != nil {
		return nil, err
	}
	return append(blocks, Figure{Path: path, Caption: "decomposition of " + series.Name}), nil
}
