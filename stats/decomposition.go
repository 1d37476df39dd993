package stats

import (
	"math"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/timeseries"
)

// DecompositionType selects how the components combine.
type DecompositionType string

const (
	// Additive decomposition: Y = T + S + R.
	Additive DecompositionType = "additive"
	// Multiplicative decomposition: Y = T * S * R.
	Multiplicative DecompositionType = "multiplicative"
)

// DecompositionResult represents the decomposition of a time series.
// Trend and Residual are NaN where the centred moving average is undefined.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Type     DecompositionType
}

// Decompose performs classical seasonal decomposition with a centred moving
// average trend and period-averaged seasonal indices.
func Decompose(series *timeseries.Series, period int, kind DecompositionType) (*DecompositionResult, error) {
	n := series.Len()
	if period < 2 {
		return nil, errors.Wrapf(ErrInvalidOption, "decomposition period %d", period)
	}
	if n < 2*period {
		return nil, errors.Wrapf(ErrInsufficientData, "decomposition needs two full periods, have %d observations for period %d", n, period)
	}
	if kind == "" {
		kind = Additive
	}
	if kind != Additive && kind != Multiplicative {
		return nil, errors.Wrapf(ErrInvalidOption, "decomposition type %q", kind)
	}
	multiplicative := kind == Multiplicative
	if multiplicative {
		for _, v := range series.Values {
			if v <= 0 {
				return nil, errors.Wrap(ErrInvalidOption, "multiplicative decomposition needs positive values")
			}
		}
	}

	trend := centredMovingAverage(series.Values, period)

	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case multiplicative:
			detrended[i] = series.Values[i] / trend[i]
		default:
			detrended[i] = series.Values[i] - trend[i]
		}
	}

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if !math.IsNaN(v) {
			pattern[i%period] += v
			counts[i%period]++
		}
	}
	mean := 0.0
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		mean += pattern[i]
	}
	mean /= float64(period)
	for i := range pattern {
		if multiplicative {
			pattern[i] /= mean
		} else {
			pattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case multiplicative:
			residual[i] = series.Values[i] / (trend[i] * seasonal[i])
		default:
			residual[i] = series.Values[i] - trend[i] - seasonal[i]
		}
	}

	component := func(values []float64, name string) *timeseries.Series {
		return &timeseries.Series{Values: values, Timestamps: series.Timestamps, Name: name}
	}
	return &DecompositionResult{
		Original: series,
		Trend:    component(trend, "trend"),
		Seasonal: component(seasonal, "seasonal"),
		Residual: component(residual, "residual"),
		Period:   period,
		Type:     kind,
	}, nil
}

// centredMovingAverage uses a 2 x period average for even periods.
func centredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		if period%2 == 0 {
			sum += 0.5*values[i-half] + 0.5*values[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		trend[i] = sum / float64(period)
	}
	return trend
}
