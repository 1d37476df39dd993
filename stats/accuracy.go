package stats

import "math"

// Accuracy summarises out-of-sample forecast errors.
type Accuracy struct {
	RMSE float64
	MAE  float64
	MAPE float64 // percent, over non-zero actuals
	N    int
}

// ForecastAccuracy compares predicted with actual over their common length.
func ForecastAccuracy(actual, predicted []float64) Accuracy {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return Accuracy{RMSE: math.NaN(), MAE: math.NaN(), MAPE: math.NaN()}
	}
	var sse, sae, sape float64
	nonzero := 0
	for i := 0; i < n; i++ {
		d := actual[i] - predicted[i]
		sse += d * d
		sae += math.Abs(d)
		if actual[i] != 0 {
			sape += math.Abs(d) / math.Abs(actual[i]) * 100
			nonzero++
		}
	}
	acc := Accuracy{RMSE: math.Sqrt(sse / float64(n)), MAE: sae / float64(n), MAPE: math.NaN(), N: n}
	if nonzero > 0 {
		acc.MAPE = sape / float64(nonzero)
	}
	return acc
}

// HoldoutSize picks a test-set length for n observations: a fifth of the
// data, at least one season, between 3 and 30.
func HoldoutSize(n, period int) int {
	size := n / 5
	if period > 1 {
		size = max(size, period)
	}
	return max(min(size, 30), 3)
}
