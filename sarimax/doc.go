// Package sarimax implements regression with seasonal ARIMA errors,
// SARIMAX(p,d,q)x(P,D,Q,s).
//
// The model is
//
//	y_t = c + x_t'b + u_t
//	phi(B) Phi(B^s) (1-B)^d (1-B^s)^D u_t = theta(B) Theta(B^s) e_t
//
// and is estimated by conditional sum of squares on the differenced data.
// AR and MA polynomials are kept stationary and invertible by optimising
// over partial autocorrelations. Standard errors come from the numerical
// Hessian of the concentrated log-likelihood.
//
// # Basic Usage
//
//	model := sarimax.New(
//	    sarimax.Order{P: 1, D: 1, Q: 1},
//	    sarimax.SeasonalOrder{P: 1, S: 4},
//	)
//	if err := model.Fit(ctx, series); err != nil {
//	    return err
//	}
//	fmt.Println(model.Summary())
//
//	fc, _ := model.Forecast(8, nil)
//	// fc.Mean, fc.Lower, fc.Upper hold the forecasts and 95% intervals
//
// # Exogenous Regressors
//
// WithExog adds regressors, one row per observation. Forecasting a model
// with regressors needs their future values:
//
//	model := sarimax.New(order, seasonal, sarimax.WithExog([]string{"unemp"}, rows))
//	fc, err := model.Forecast(4, futureRows)
//
// # Trend
//
// Without differencing the model carries a constant by default. Once the
// series is differenced the default is no deterministic term; WithTrend("c")
// then adds a drift on the differenced scale.
package sarimax
