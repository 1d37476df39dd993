package timeseries

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/tsdeck/internal/errors"
)

// ErrNoData is returned when a CSV source yields no usable observations.
var ErrNoData = errors.New("no valid data found in CSV")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (optional, detected when empty)
	ValueColumn string // Column name for values (default: "y")
	DateFormat  string // Date format (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  time.DateOnly,
		Delimiter:   ',',
	}
}

var dateColumns = map[string]bool{"ds": true, "date": true, "Date": true, "quarter": true, "period": true}

// fallback layouts tried after the configured one; quarter labels are handled separately.
var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
	"2006",
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()

	s, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filename)
	}
	return s, nil
}

// LoadCSVFromReader loads a time series from an io.Reader. The first row is
// a header. Rows with an empty, NA or NaN value are skipped.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	valueIdx, dateIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == opts.ValueColumn:
			valueIdx = i
		case opts.DateColumn != "" && h == opts.DateColumn:
			dateIdx = i
		case opts.DateColumn == "" && dateColumns[h] && dateIdx == -1:
			dateIdx = i
		}
	}
	if valueIdx == -1 {
		return nil, errors.WithHintf(
			errors.Newf("value column %q not found", opts.ValueColumn),
			"available columns: %s", strings.Join(header, ", "))
	}

	var values []float64
	var timestamps []time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read row")
		}
		if valueIdx >= len(record) {
			continue
		}

		valStr := strings.TrimSpace(record[valueIdx])
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse value %q", valStr)
		}
		values = append(values, val)

		if dateIdx >= 0 && dateIdx < len(record) {
			if ts, ok := parseDate(strings.TrimSpace(record[dateIdx]), opts.DateFormat); ok {
				timestamps = append(timestamps, ts)
			}
		}
	}

	if len(values) == 0 {
		return nil, ErrNoData
	}

	series := New(values)
	if len(timestamps) == len(values) {
		series.Timestamps = timestamps
	}
	series.Name = opts.ValueColumn
	return series, nil
}

func parseDate(s, layout string) (time.Time, bool) {
	if strings.ContainsAny(s, "Qq") {
		if ts, err := ParseQuarter(s); err == nil {
			return ts, true
		}
	}
	if layout != "" {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	for _, l := range dateLayouts {
		if ts, err := time.Parse(l, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// LoadCSVColumn loads a specific column from a CSV file as a series.
func LoadCSVColumn(filename string, column string) (*Series, error) {
	opts := DefaultCSVOptions()
	opts.ValueColumn = column
	return LoadCSV(filename, opts)
}

// SaveCSV writes a series as "ds,y" rows.
func SaveCSV(series *Series, w io.Writer) error {
	writer := bufio.NewWriter(w)
	indexed := len(series.Timestamps) == len(series.Values)

	if _, err := writer.WriteString("ds,y\n"); err != nil {
		return err
	}
	for i, v := range series.Values {
		ds := strconv.Itoa(i + 1)
		if indexed {
			ds = series.Timestamps[i].Format(time.DateOnly)
		}
		if _, err := writer.WriteString(ds + "," + strconv.FormatFloat(v, 'f', -1, 64) + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
