// Package tsdeck is a terminal teaching deck on time series forecasting and
// the statistics library behind it.
//
// The deck walks through the standard ARIMA workflow on quarterly
// macroeconomic data (a simulated sample unless a CSV is given) and computes every table and figure live: unit root
// and stationarity tests, autocorrelation, SARIMAX estimation and
// forecasting, order selection by information criteria and a brute-force
// search over seasonal orders.
//
// # Quick Start
//
//	tsdeck present -i          # step through the built-in deck
//	tsdeck fit --order 1,0,1   # one analysis on its own
//
// As a library:
//
//	series, _ := dataset.Sample().Series("infl")
//	report, _ := stats.CheckStationarity(series, 0.05)
//	fmt.Println(report.Verdict)
//
//	model := sarimax.New(sarimax.Order{P: 1, Q: 1}, sarimax.SeasonalOrder{})
//	if err := model.Fit(ctx, series); err != nil {
//	    return err
//	}
//	fc, _ := model.Forecast(8, nil)
//
// # Packages
//
//   - timeseries: series type, transforms, quarterly index and CSV
//   - dataset: column tables and the bundled macro sample
//   - stats: ADF, KPSS, Phillips-Perron, ACF/PACF, diagnostics, decomposition
//   - sarimax: seasonal ARIMA with exogenous regressors
//   - selection: IC order tables, brute-force grid search, stepwise auto ARIMA
//   - plot: figures with gonum/plot
//   - deck: slides, cells and the presenter
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package tsdeck
