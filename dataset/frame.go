package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/timeseries"
)

var (
	// ErrMissingColumn is returned when a requested column does not exist.
	ErrMissingColumn = errors.New("column not found")
	// ErrIrregularIndex is returned when year/quarter rows are not one per quarter in order.
	ErrIrregularIndex = errors.New("year/quarter index is not strictly increasing one observation per quarter")
)

// Frame is a column-oriented numeric table.
type Frame struct {
	columns []string
	data    map[string][]float64
	n       int
}

// NewFrame builds a frame from named columns of equal length.
func NewFrame(columns []string, data map[string][]float64) (*Frame, error) {
	if len(columns) == 0 {
		return nil, errors.New("frame needs at least one column")
	}
	n := -1
	for _, c := range columns {
		v, ok := data[c]
		if !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "%q", c)
		}
		if n >= 0 && len(v) != n {
			return nil, errors.Newf("column %q has %d rows, expected %d", c, len(v), n)
		}
		n = len(v)
	}
	return &Frame{columns: slices.Clone(columns), data: data, n: n}, nil
}

// Columns returns the column names in file order.
func (f *Frame) Columns() []string {
	return slices.Clone(f.columns)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.n
}

// Has reports whether the frame holds column name.
func (f *Frame) Has(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	v, ok := f.data[name]
	if !ok {
		return nil, errors.WithHintf(errors.Wrapf(ErrMissingColumn, "%q", name),
			"available columns: %s", strings.Join(f.columns, ", "))
	}
	return slices.Clone(v), nil
}

// Head renders the first n rows as strings, header first.
func (f *Frame) Head(n int) [][]string {
	n = min(n, f.n)
	rows := make([][]string, 0, n+1)
	rows = append(rows, f.Columns())
	for i := 0; i < n; i++ {
		row := make([]string, len(f.columns))
		for j, c := range f.columns {
			row[j] = strconv.FormatFloat(f.data[c][i], 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	return rows
}

// Index concatenates the year and quarter columns into quarter-start
// timestamps and checks that they advance by exactly one quarter per row.
func (f *Frame) Index() ([]time.Time, error) {
	years, err := f.Column("year")
	if err != nil {
		return nil, err
	}
	quarters, err := f.Column("quarter")
	if err != nil {
		return nil, err
	}

	index := make([]time.Time, f.n)
	for i := range index {
		y, q := years[i], quarters[i]
		if y != math.Trunc(y) || q != math.Trunc(q) {
			return nil, errors.Wrapf(ErrIrregularIndex, "row %d: non-integer year/quarter %v/%v", i, y, q)
		}
		ts, err := timeseries.QuarterStart(int(y), int(q))
		if err != nil {
			return nil, errors.Wrapf(ErrIrregularIndex, "row %d: %v", i, err)
		}
		if i > 0 {
			if want := index[i-1].AddDate(0, 3, 0); !ts.Equal(want) {
				return nil, errors.Wrapf(ErrIrregularIndex, "row %d: %s follows %s",
					i, timeseries.QuarterLabel(ts), timeseries.QuarterLabel(index[i-1]))
			}
		}
		index[i] = ts
	}
	return index, nil
}

// Series derives the date-indexed single-variable series for column.
func (f *Frame) Series(column string) (*timeseries.Series, error) {
	index, err := f.Index()
	if err != nil {
		return nil, err
	}
	values, err := f.Column(column)
	if err != nil {
		return nil, err
	}
	s, err := timeseries.NewWithTimestamps(index, values)
	if err != nil {
		return nil, err
	}
	s.Name = column
	if err := timeseries.ValidateQuarterly(s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadCSV reads a frame from a CSV file with a header row.
func LoadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	f, err := ReadCSV(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return f, nil
}

// ReadCSV reads a frame from r. Every column must be numeric; an optional
// leading unnamed index column is dropped.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	skip := -1
	columns := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" && i == 0 {
			skip = 0
			continue
		}
		columns = append(columns, h)
	}

	data := make(map[string][]float64, len(columns))
	for _, c := range columns {
		data[c] = []float64{}
	}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read row")
		}
		line++

		j := 0
		for i, field := range record {
			if i == skip {
				continue
			}
			field = strings.TrimSpace(field)
			v := math.NaN()
			if field != "" && field != "NA" && field != "NaN" {
				v, err = strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d column %q", line, columns[j])
				}
			}
			data[columns[j]] = append(data[columns[j]], v)
			j++
		}
	}

	return NewFrame(columns, data)
}
