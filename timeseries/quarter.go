package timeseries

import (
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/tsdeck/internal/errors"
)

// ErrIrregularQuarters is returned when a quarterly index skips or repeats a quarter.
var ErrIrregularQuarters = errors.New("index is not one observation per quarter")

// QuarterStart returns the first instant of the given quarter in UTC.
func QuarterStart(year, quarter int) (time.Time, error) {
	if quarter < 1 || quarter > 4 {
		return time.Time{}, errors.Newf("quarter must be in 1..4, got %d", quarter)
	}
	return time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC), nil
}

// ParseQuarter parses labels such as "1959Q1" or "1959-Q1".
func ParseQuarter(label string) (time.Time, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	idx := strings.LastIndex(s, "Q")
	if idx <= 0 || idx == len(s)-1 {
		return time.Time{}, errors.Newf("invalid quarter label %q", label)
	}
	year, err := strconv.Atoi(strings.TrimSuffix(s[:idx], "-"))
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid year in quarter label %q", label)
	}
	q, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid quarter in label %q", label)
	}
	return QuarterStart(year, q)
}

// QuarterLabel formats t as "YYYYQn".
func QuarterLabel(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return strconv.Itoa(t.Year()) + "Q" + strconv.Itoa(q)
}

// ValidateQuarterly checks that the series has one observation per quarter
// with strictly increasing, gap-free timestamps on quarter starts.
func ValidateQuarterly(s *Series) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for i, ts := range s.Timestamps {
		if ts.Day() != 1 || (int(ts.Month())-1)%3 != 0 {
			return errors.Wrapf(ErrIrregularQuarters, "%s is not a quarter start", ts.Format(time.DateOnly))
		}
		if i == 0 {
			continue
		}
		if want := s.Timestamps[i-1].AddDate(0, 3, 0); !ts.Equal(want) {
			return errors.Wrapf(ErrIrregularQuarters, "expected %s after %s, got %s",
				QuarterLabel(want), QuarterLabel(s.Timestamps[i-1]), QuarterLabel(ts))
		}
	}
	return nil
}
