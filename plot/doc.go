// Package plot renders the deck's figures with gonum/plot: time series,
// correlograms, forecasts with confidence bands and seasonal
// decompositions. The output format follows the file extension (.png,
// .jpg or .svg). Missing values break lines rather than being
// interpolated.
package plot
