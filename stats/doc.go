// Package stats provides statistical tests and analysis functions for time series.
//
// It covers the stationarity tests, autocorrelation functions and residual
// diagnostics used before and after fitting a SARIMAX model.
//
// # Stationarity Tests
//
// The Augmented Dickey-Fuller test has a unit root as its null hypothesis;
// KPSS has stationarity as its null. Run together they classify a series:
//
//	report, err := stats.CheckStationarity(series, 0.05)
//	fmt.Println(report.ADFConclusion())
//	fmt.Println(report.KPSSConclusion())
//	fmt.Println(report.Verdict, "-", report.Verdict.Advice())
//
// Each test can also be run on its own:
//
//	adf, err := stats.ADF(series, stats.ADFOptions{Regression: "ct", AutoLag: stats.AutoLagBIC})
//	kpss, err := stats.KPSS(series, stats.KPSSOptions{Regression: "c", LagMethod: stats.KPSSLagsAuto})
//	pp, err := stats.PhillipsPerron(series, 0)
//
// ADF and Phillips-Perron p-values use MacKinnon's response surface; KPSS
// p-values are interpolated in the published table and flagged when clipped.
//
//	| ADF          | KPSS         | Verdict               |
//	|--------------|--------------|-----------------------|
//	| rejects      | keeps        | stationary            |
//	| keeps        | rejects      | non-stationary        |
//	| keeps        | keeps        | trend-stationary      |
//	| rejects      | rejects      | difference-stationary |
//
// # Differencing Analysis
//
//	d := stats.NDiffs(series, 2, "kpss")
//	sd := stats.NSDiffs(series, 4, 1) // period=4 for quarterly data
//
// # Autocorrelation Functions
//
//	acf := stats.ACFWithConfidence(series, 20, 0.05) // Bartlett bands
//	pacf := stats.PACFWithConfidence(series, 20, 0.05)
//	significant := stats.SignificantLags(pacf.Values, pacf.ConfBounds)
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	jb := stats.JarqueBera(residuals.Values)
//	dw := stats.DurbinWatson(residuals.Values)
//
// # Time Series Decomposition
//
//	decomp, err := stats.Decompose(series, 4, stats.Additive)
//	// decomp.Trend, decomp.Seasonal, decomp.Residual
package stats
