// Package timeseries provides time series data structures and utilities.
//
// This package includes the Series type for representing time series data,
// along with functions for data loading, transformation and indexing.
//
// # Creating a Series
//
// Create a time series from a slice:
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.New(values)
//
// or with an explicit index:
//
//	series, err := timeseries.NewWithTimestamps(timestamps, values)
//	if err := series.Validate(); err != nil {
//	    // timestamps not strictly increasing, or NaN values
//	}
//
// # Quarterly Index
//
// Quarterly observations are stamped on the first day of the quarter:
//
//	ts, _ := timeseries.QuarterStart(1959, 1)    // 1959-01-01
//	ts, _ = timeseries.ParseQuarter("2009Q3")     // 2009-07-01
//	label := timeseries.QuarterLabel(ts)          // "2009Q3"
//	err := timeseries.ValidateQuarterly(series)   // one observation per quarter
//
// # Loading from CSV
//
//	series, err := timeseries.LoadCSVColumn("data.csv", "value")
//
// # Transformations
//
//	diff := series.Diff()             // First difference
//	diff2 := series.DiffN(2)          // Second-order difference
//	sdiff := series.SeasonalDiff(4)   // Seasonal difference
//	logged := series.Log()            // Natural log
//	mean, std := series.Rolling(8)    // Rolling statistics
//	future := series.FutureTimestamps(12)
package timeseries
