package plot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/sarimax"
	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

// ForecastPlot draws the history, the in-sample fitted values (dashed, may
// be nil) and the forecast with its confidence band.
func ForecastPlot(path, title string, history *timeseries.Series, fitted []float64, fc *sarimax.Forecast) error {
	if fc == nil || len(fc.Mean) == 0 {
		return errors.Wrap(ErrNoData, "empty forecast")
	}
	p := newPlot(title, history.Name, true)

	x := make([]float64, len(fc.Timestamps))
	for i, t := range fc.Timestamps {
		x[i] = float64(t.Unix())
	}
	poly, err := band(x, fc.Lower, fc.Upper)
	if err != nil {
		return errors.Wrap(err, "forecast band")
	}
	p.Add(poly)

	if err := addLine(p, "observed", history.Timestamps, history.Values, plotutil.Color(0), false); err != nil {
		return err
	}
	if fitted != nil {
		if err := addLine(p, "fitted", history.Timestamps, fitted, plotutil.Color(1), true); err != nil {
			return err
		}
	}
	if err := addLine(p, "forecast", fc.Timestamps, fc.Mean, plotutil.Color(2), false); err != nil {
		return err
	}
	return save(p, path, Width, Height)
}

// DecompositionPlot draws the observed series, trend, seasonal and residual
// components as stacked panels.
func DecompositionPlot(path string, dec *stats.DecompositionResult) error {
	if dec == nil {
		return errors.Wrap(ErrNoData, "empty decomposition")
	}
	parts := []struct {
		label  string
		series *timeseries.Series
	}{
		{"observed", dec.Original},
		{"trend", dec.Trend},
		{"seasonal", dec.Seasonal},
		{"residual", dec.Residual},
	}

	plots := make([]*plot.Plot, 0, len(parts))
	for i, part := range parts {
		title := ""
		if i == 0 {
			title = dec.Original.Name + " decomposition"
		}
		p := newPlot(title, part.label, true)
		if err := addLine(p, "", part.series.Timestamps, part.series.Values, plotutil.Color(i), false); err != nil {
			return errors.Wrapf(err, "%s panel", part.label)
		}
		plots = append(plots, p)
	}
	return saveStack(plots, path, Width, PanelHeight)
}
