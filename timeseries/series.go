// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/tsdeck/internal/errors"
)

var (
	// ErrLengthMismatch is returned when timestamps and values differ in length.
	ErrLengthMismatch = errors.New("timestamps and values must have the same length")
	// ErrNotIncreasing is returned when timestamps are not strictly increasing.
	ErrNotIncreasing = errors.New("timestamps must be strictly increasing")
	// ErrMissingValue is returned when a series holds NaN or infinite values.
	ErrMissingValue = errors.New("series contains missing or infinite values")
)

// Series represents a time series with timestamps and values.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a new time series from values, indexed by consecutive days
// starting at the Unix epoch.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Unix(0, 0).UTC()
	for i := range timestamps {
		timestamps[i] = base.AddDate(0, 0, i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d timestamps, %d values", len(timestamps), len(values))
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Validate checks the index and values of the series.
func (s *Series) Validate() error {
	if len(s.Timestamps) != len(s.Values) {
		return errors.Wrapf(ErrLengthMismatch, "series %q", s.Name)
	}
	for i := 1; i < len(s.Timestamps); i++ {
		if !s.Timestamps[i].After(s.Timestamps[i-1]) {
			return errors.Wrapf(ErrNotIncreasing, "series %q at position %d (%s after %s)",
				s.Name, i, s.Timestamps[i].Format(time.DateOnly), s.Timestamps[i-1].Format(time.DateOnly))
		}
	}
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrMissingValue, "series %q at position %d", s.Name, i)
		}
	}
	return nil
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the unbiased sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.lagDiff(1, "_diff")
}

// DiffN applies the first difference n times.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 {
		return s.Copy()
	}
	out := s
	for i := 0; i < n; i++ {
		out = out.Diff()
	}
	return out
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.lagDiff(m, "_seasonal_diff")
}

func (s *Series) lagDiff(lag int, suffix string) *Series {
	if lag <= 0 || len(s.Values) <= lag {
		return &Series{Values: []float64{}, Timestamps: []time.Time{}, Name: s.Name + suffix}
	}

	result := make([]float64, len(s.Values)-lag)
	for i := lag; i < len(s.Values); i++ {
		result[i-lag] = s.Values[i] - s.Values[i-lag]
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) == len(s.Values) {
		copy(timestamps, s.Timestamps[lag:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + suffix,
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Timestamps: []time.Time{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Log applies natural logarithm transformation. Non-positive values become NaN.
func (s *Series) Log() *Series {
	out := s.Copy()
	for i, v := range out.Values {
		if v > 0 {
			out.Values[i] = math.Log(v)
		} else {
			out.Values[i] = math.NaN()
		}
	}
	out.Name = s.Name + "_log"
	return out
}

// Rolling returns the trailing rolling mean and standard deviation over
// window observations. Both outputs keep the full index; the first
// window-1 positions are NaN.
func (s *Series) Rolling(window int) (mean, std *Series) {
	n := len(s.Values)
	mean = s.Copy()
	std = s.Copy()
	mean.Name = s.Name + "_rolling_mean"
	std.Name = s.Name + "_rolling_std"

	for i := 0; i < n; i++ {
		if window <= 0 || i < window-1 {
			mean.Values[i] = math.NaN()
			std.Values[i] = math.NaN()
			continue
		}
		w := s.Values[i-window+1 : i+1]
		m, sd := stat.MeanStdDev(w, nil)
		mean.Values[i] = m
		std.Values[i] = sd
	}
	return mean, std
}

// Normalize standardizes the series (z-score normalization).
func (s *Series) Normalize() *Series {
	mean := s.Mean()
	std := s.Std()

	out := s.Copy()
	out.Name = s.Name + "_normalized"
	if std == 0 {
		return out
	}
	for i, v := range out.Values {
		out.Values[i] = (v - mean) / std
	}
	return out
}

// FutureTimestamps extends the index by steps observations. When the last two
// observations fall on the first of a month the step is taken in calendar
// months (so quarterly data stays on quarter starts), otherwise the last
// observed duration is repeated.
func (s *Series) FutureTimestamps(steps int) []time.Time {
	n := len(s.Timestamps)
	if steps <= 0 || n == 0 {
		return nil
	}

	out := make([]time.Time, steps)
	last := s.Timestamps[n-1]
	if n < 2 {
		for i := range out {
			out[i] = last.AddDate(0, 0, i+1)
		}
		return out
	}

	prev := s.Timestamps[n-2]
	if months := monthStep(prev, last); months > 0 {
		for i := range out {
			out[i] = last.AddDate(0, months*(i+1), 0)
		}
		return out
	}

	step := last.Sub(prev)
	for i := range out {
		out[i] = last.Add(step * time.Duration(i+1))
	}
	return out
}

// monthStep returns the whole-month distance between a and b when both sit
// on the first of a month at midnight, and 0 otherwise.
func monthStep(a, b time.Time) int {
	onMonthStart := func(t time.Time) bool {
		return t.Day() == 1 && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
	}
	if !onMonthStart(a) || !onMonthStart(b) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	if months <= 0 {
		return 0
	}
	return months
}
