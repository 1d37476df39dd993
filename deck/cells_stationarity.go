package deck

import (
	"context"
	"fmt"

	"github.com/sartorproj/tsdeck/internal/recorder"
	"github.com/sartorproj/tsdeck/plot"
	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

// stationarityBlocks runs the joint ADF/KPSS check and records the verdict.
// period > 1 notes that one seasonal difference at that lag was applied.
func stationarityBlocks(ctx context.Context, s *Session, series *timeseries.Series, diffs, period int) ([]Block, *stats.StationarityReport, error) {
	report, err := stats.CheckStationarity(series, s.alpha())
	if err != nil {
		return nil, nil, err
	}

	kpssP := f4(report.KPSS.PValue)
	if report.KPSS.PValueClipped {
		if report.KPSSRejects {
			kpssP = "< " + kpssP
		} else {
			kpssP = "> " + kpssP
		}
	}
	table := Table{
		Caption: "Stationarity tests on " + series.Name,
		Rows: [][]string{
			{"test", "null", "statistic", "p-value", "lags", "5% critical"},
			{"ADF", "unit root", f4(report.ADF.Statistic), f4(report.ADF.PValue),
				fmt.Sprint(report.ADF.UsedLag), f4(report.ADF.CriticalValues["5%"])},
			{"KPSS", "stationary", f4(report.KPSS.Statistic), kpssP,
				fmt.Sprint(report.KPSS.Lags), f4(report.KPSS.CriticalValues["5%"])},
		},
	}

	rec := &recorder.StationarityRecord{
		Column:     series.Name,
		Diffs:      diffs,
		ADFStat:    report.ADF.Statistic,
		ADFPValue:  report.ADF.PValue,
		KPSSStat:   report.KPSS.Statistic,
		KPSSPValue: report.KPSS.PValue,
		Alpha:      report.Alpha,
		Verdict:    string(report.Verdict),
	}
	if period > 1 {
		rec.SeasonalDiffs, rec.Period = 1, period
	}
	if err := s.Recorder.RecordStationarity(ctx, rec); err != nil {
		s.Logger.Warnw("Failed to record stationarity verdict", "error", err)
	}

	return []Block{
		table,
		Bullets{report.ADFConclusion(), report.KPSSConclusion()},
		Notice{
			Text:    fmt.Sprintf("%s: %s", report.Verdict, report.Verdict.Advice()),
			Success: report.Verdict == stats.Stationary,
		},
	}, report, nil
}

func stationarityCell(ctx context.Context, s *Session, args Args) ([]Block, error) {
	series, diff, err := s.input(args)
	if err != nil {
		return nil, err
	}
	blocks, _, err := stationarityBlocks(ctx, s, series, diff, 0)
	return blocks, err
}

func differenceCell(ctx context.Context, s *Session, args Args) ([]Block, error) {
	order, err := args.Int("order", 1)
	if err != nil {
		return nil, err
	}
	period, err := args.Int("period", 0)
	if err != nil {
		return nil, err
	}
	original, err := s.series(args.String("column", ""), 0)
	if err != nil {
		return nil, err
	}

	suggest := Table{
		Caption: "Suggested number of differences",
		Rows: [][]string{
			{"test", "d"},
			{"KPSS", fmt.Sprint(stats.NDiffs(original, 2, "kpss"))},
			{"ADF", fmt.Sprint(stats.NDiffs(original, 2, "adf"))},
			{"Phillips-Perron", fmt.Sprint(stats.NDiffs(original, 2, "pp"))},
		},
	}
	if period > 1 {
		suggest.Rows = append(suggest.Rows, []string{fmt.Sprintf("seasonal strength (s=%d)", period),
			fmt.Sprint(stats.NSDiffs(original, period, 1))})
	}

	series := original
	if period > 1 {
		series = series.SeasonalDiff(period)
	}
	if order > 0 {
		series = series.DiffN(order)
	}

	blocks := []Block{suggest}
	checked, _, err := stationarityBlocks(ctx, s, series, order, period)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks, checked...)

	path, err := s.figure("difference-" + series.Name)
	if err != nil || path == "" {
		return blocks, err
	}
	if err := plot.SeriesPlot(path, series.Name, series); err != nil {
		return nil, err
	}
	return append(blocks, Figure{Path: path, Caption: series.Name}), nil
}
