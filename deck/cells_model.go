package deck

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/internal/recorder"
	"github.com/sartorproj/tsdeck/plot"
	"github.com/sartorproj/tsdeck/sarimax"
	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

// modelArgs reads the order, seasonal and trend arguments.
func (s *Session) modelArgs(args Args) (sarimax.Order, sarimax.SeasonalOrder, []sarimax.Option, error) {
	order, err := sarimax.ParseOrder(args.String("order", "1,0,1"))
	if err != nil {
		return order, sarimax.SeasonalOrder{}, nil, err
	}
	seasonal, err := sarimax.ParseSeasonalOrder(args.String("seasonal", "0,0,0,0"))
	if err != nil {
		return order, seasonal, nil, err
	}
	opts := []sarimax.Option{sarimax.WithAlpha(s.alpha()), sarimax.WithLogger(s.Logger)}
	if trend := args.String("trend", ""); trend != "" {
		opts = append(opts, sarimax.WithTrend(trend))
	}
	return order, seasonal, opts, nil
}

func fitCell(ctx context.Context, s *Session, args Args) ([]Block, error) {
	order, seasonal, opts, err := s.modelArgs(args)
	if err != nil {
		return nil, err
	}
	steps, err := args.Int("steps", s.Steps)
	if err != nil {
		return nil, err
	}
	series, err := s.series(args.String("column", ""), 0)
	if err != nil {
		return nil, err
	}

	if exog := args.String("exog", ""); exog != "" {
		if steps > 0 {
			return nil, errors.WithHint(
				errors.Wrap(ErrInvalidArg, "forecasting with exog needs future regressor values"),
				`set steps: "0" on slides that fit with exog`)
		}
		names, rows, err := s.exogRows(exog)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sarimax.WithExog(names, rows))
	}

	model := sarimax.New(order, seasonal, opts...)
	if err := model.Fit(ctx, series); err != nil {
		return nil, err
	}
	summary := model.Summary()

	rec := &recorder.FitRecord{
		Column:   series.Name,
		Order:    order.String(),
		Seasonal: seasonal.String(),
		NObs:     model.NObs(),
		LogLik:   model.LogLik(),
		AIC:      model.AIC(),
		BIC:      model.BIC(),
		HQIC:     model.HQIC(),
		Sigma2:   model.Sigma2(),
	}
	if err := s.Recorder.RecordFit(ctx, rec); err != nil {
		s.Logger.Warnw("Failed to record fit", "error", err)
	}

	blocks := []Block{
		Paragraph(fmt.Sprintf("%s on %s: %d observations, log likelihood %.3f.",
			summary.Title(), series.Name, summary.NObs, summary.LogLik)),
		Table{Caption: "Coefficients", Rows: summary.Rows()},
		diagnostics(model, summary),
	}
	if !model.Converged() {
		blocks = append(blocks, Notice{Text: "the optimiser stopped before converging"})
	}
	if steps <= 0 {
		return blocks, nil
	}

	fc, err := model.Forecast(steps, nil)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"date", "forecast", "std err", "lower", "upper"}}
	for h := range fc.Mean {
		rows = append(rows, []string{dateLabel(s, fc.Timestamps[h]), f4(fc.Mean[h]), f4(fc.StdErr[h]), f4(fc.Lower[h]), f4(fc.Upper[h])})
	}
	blocks = append(blocks, Table{Caption: fmt.Sprintf("Forecast with %.0f%% intervals", 100*(1-fc.Alpha)), Rows: rows})

	if out := args.String("save", ""); out != "" {
		if err := saveForecast(out, fc.Series(series.Name)); err != nil {
			return nil, err
		}
		blocks = append(blocks, Notice{Text: "forecast written to " + out, Success: true})
	}

	path, err := s.figure(fmt.Sprintf("forecast-%s-%d%d%d", series.Name, order.P, order.D, order.Q))
	if err != nil || path == "" {
		return blocks, err
	}
	if err := plot.ForecastPlot(path, summary.Title(), series, model.FittedValues(), fc); err != nil {
		return nil, err
	}
	return append(blocks, Figure{Path: path, Caption: summary.Title() + " forecast"}), nil
}

// diagnostics tabulates the information criteria and residual tests.
func diagnostics(model *sarimax.Model, summary *sarimax.Summary) Table {
	resid := model.ResidualSeries()
	fitdf := summary.Order.P + summary.Order.Q + summary.SeasonalOrder.P + summary.SeasonalOrder.Q

	row := []string{f4(summary.AIC), f4(summary.BIC), f4(summary.HQIC), "n/a", "n/a", "n/a", "n/a"}
	if lb := summary.LjungBox; lb != nil {
		row[3] = f4(lb.PValue)
	}
	if bp := stats.BoxPierce(resid, ljungBoxLags, fitdf); bp != nil {
		row[4] = f4(bp.PValue)
	}
	if jb := summary.JarqueBera; jb != nil {
		row[5] = f4(jb.PValue)
	}
	if dw := stats.DurbinWatson(resid.Values); dw != nil {
		row[6] = f4(dw.Statistic)
	}
	return Table{Caption: "Fit", Rows: [][]string{
		{"AIC", "BIC", "HQIC", "Ljung-Box p", "Box-Pierce p", "Jarque-Bera p", "Durbin-Watson"},
		row,
	}}
}

// ljungBoxLags matches the portmanteau horizon of the model summary.
const ljungBoxLags = 10

func saveForecast(path string, fc *timeseries.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := timeseries.SaveCSV(fc, f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

func backtestCell(ctx context.Context, s *Session, args Args) ([]Block, error) {
	order, seasonal, opts, err := s.modelArgs(args)
	if err != nil {
		return nil, err
	}
	series, err := s.series(args.String("column", ""), 0)
	if err != nil {
		return nil, err
	}
	n := series.Len()
	size, err := args.Int("test", stats.HoldoutSize(n, seasonal.S))
	if err != nil {
		return nil, err
	}
	if size < 1 || size >= n {
		return nil, errors.Wrapf(ErrInvalidArg, "test=%d with %d observations", size, n)
	}

	train, test := series.Slice(0, n-size), series.Slice(n-size, n)
	model := sarimax.New(order, seasonal, opts...)
	if err := model.Fit(ctx, train); err != nil {
		return nil, err
	}
	fc, err := model.Forecast(size, nil)
	if err != nil {
		return nil, err
	}

	naive := make([]float64, size)
	for i := range naive {
		naive[i] = train.Values[train.Len()-1]
	}
	title := model.Summary().Title()
	acc := stats.ForecastAccuracy(test.Values, fc.Mean)
	base := stats.ForecastAccuracy(test.Values, naive)
	blocks := []Block{
		Paragraph(fmt.Sprintf("%s fitted on the first %d observations of %s and scored on the last %d.",
			title, train.Len(), series.Name, size)),
		Table{Caption: "Out-of-sample accuracy", Rows: [][]string{
			{"forecast", "RMSE", "MAE", "MAPE %"},
			{title, f4(acc.RMSE), f4(acc.MAE), f4(acc.MAPE)},
			{"naive (last value)", f4(base.RMSE), f4(base.MAE), f4(base.MAPE)},
		}},
		Notice{
			Text:    fmt.Sprintf("RMSE %.4f against %.4f for the naive forecast", acc.RMSE, base.RMSE),
			Success: acc.RMSE < base.RMSE,
		},
	}

	path, err := s.figure(fmt.Sprintf("backtest-%s-%d%d%d", series.Name, order.P, order.D, order.Q))
	if err != nil || path == "" {
		return blocks, err
	}
	if err := plot.ForecastPlot(path, title+" holdout", series, model.FittedValues(), fc); err != nil {
		return nil, err
	}
	return append(blocks, Figure{Path: path, Caption: title + " against the held-out data"}), nil
}

// exogRows returns the named frame columns as one row per observation.
func (s *Session) exogRows(list string) ([]string, [][]float64, error) {
	if s.Frame == nil {
		return nil, nil, errors.Wrap(ErrNoData, "exogenous regressors need a table")
	}
	var names []string
	var cols [][]float64
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		col, err := s.Frame.Column(name)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		cols = append(cols, col)
	}
	rows := make([][]float64, s.Frame.Len())
	for i := range rows {
		rows[i] = make([]float64, len(cols))
		for j, col := range cols {
			rows[i][j] = col[i]
		}
	}
	return names, rows, nil
}
