package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/internal/errors"
)

func TestQuarterStart(t *testing.T) {
	ts, err := QuarterStart(1959, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1959, time.July, 1, 0, 0, 0, 0, time.UTC), ts)

	_, err = QuarterStart(1959, 5)
	assert.Error(t, err)
}

func TestParseQuarter(t *testing.T) {
	tests := []struct {
		label   string
		want    string
		wantErr bool
	}{
		{label: "1959Q1", want: "1959-01-01"},
		{label: "2009-Q3", want: "2009-07-01"},
		{label: " 1980q4 ", want: "1980-10-01"},
		{label: "1980Q", wantErr: true},
		{label: "Q2", wantErr: true},
		{label: "1980Q7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			ts, err := ParseQuarter(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ts.Format(time.DateOnly))
		})
	}
}

func TestQuarterLabel(t *testing.T) {
	assert.Equal(t, "2001Q2", QuarterLabel(time.Date(2001, time.May, 15, 0, 0, 0, 0, time.UTC)))
}

func quarterly(t *testing.T, labels ...string) *Series {
	t.Helper()
	ts := make([]time.Time, len(labels))
	values := make([]float64, len(labels))
	for i, l := range labels {
		var err error
		ts[i], err = ParseQuarter(l)
		require.NoError(t, err)
		values[i] = float64(i)
	}
	s, err := NewWithTimestamps(ts, values)
	require.NoError(t, err)
	return s
}

func TestValidateQuarterly(t *testing.T) {
	assert.NoError(t, ValidateQuarterly(quarterly(t, "1959Q3", "1959Q4", "1960Q1")))

	err := ValidateQuarterly(quarterly(t, "1959Q3", "1960Q1"))
	assert.True(t, errors.Is(err, ErrIrregularQuarters))

	err = ValidateQuarterly(quarterly(t, "1959Q3", "1959Q3"))
	assert.True(t, errors.Is(err, ErrNotIncreasing))
}
