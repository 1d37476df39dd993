package deck

import (
	"strconv"
	"strings"

	"github.com/sartorproj/tsdeck/internal/errors"
)

// ErrInvalidArg is returned when a slide argument cannot be parsed.
var ErrInvalidArg = errors.New("invalid cell argument")

// Args are the string arguments a slide passes to its cell.
type Args map[string]string

// String returns the argument or def when unset.
func (a Args) String(key, def string) string {
	if v, ok := a[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// Int returns the integer argument or def when unset.
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArg, "%s=%q is not an integer", key, v)
	}
	return n, nil
}

// Float returns the numeric argument or def when unset.
func (a Args) Float(key string, def float64) (float64, error) {
	v, ok := a[key]
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArg, "%s=%q is not a number", key, v)
	}
	return f, nil
}
