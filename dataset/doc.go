// Package dataset loads the tabular data the deck works on.
//
// A Frame is a column-oriented numeric table. The bundled sample is a
// simulated quarterly macroeconomic table (1959Q1 to 2009Q3) shaped like the
// published US series, with the fields year, quarter, realgdp, cpi, infl,
// unemp, tbilrate and realint:
//
//	frame := dataset.Sample()
//	infl, err := frame.Series("infl") // indexed by quarter start dates
//
// Any CSV with year and quarter columns can replace it:
//
//	frame, err := dataset.LoadCSV("macro.csv")
//
// Series concatenates year and quarter into a timestamp and rejects tables
// whose rows are not strictly increasing, one observation per quarter.
package dataset
