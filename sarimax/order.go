package sarimax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sartorproj/tsdeck/internal/errors"
)

// ErrInvalidOrder is returned for negative orders or a bad seasonal period.
var ErrInvalidOrder = errors.New("invalid model order")

// Order is the non-seasonal (p, d, q) order.
type Order struct {
	P int // AR order
	D int // Differencing order
	Q int // MA order
}

// SeasonalOrder is the seasonal (P, D, Q, s) order.
type SeasonalOrder struct {
	P int // Seasonal AR order
	D int // Seasonal differencing order
	Q int // Seasonal MA order
	S int // Seasonal period (e.g., 4 for quarterly data with yearly seasonality)
}

// String formats the order as (p,d,q).
func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// String formats the order as (P,D,Q,s).
func (o SeasonalOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", o.P, o.D, o.Q, o.S)
}

// IsSeasonal reports whether the order has any seasonal term.
func (o SeasonalOrder) IsSeasonal() bool {
	return o.P > 0 || o.D > 0 || o.Q > 0
}

// Validate checks the combined order.
func Validate(order Order, seasonal SeasonalOrder) error {
	if order.P < 0 || order.D < 0 || order.Q < 0 {
		return errors.Wrapf(ErrInvalidOrder, "negative order %s", order)
	}
	if seasonal.P < 0 || seasonal.D < 0 || seasonal.Q < 0 || seasonal.S < 0 {
		return errors.Wrapf(ErrInvalidOrder, "negative seasonal order %s", seasonal)
	}
	if seasonal.IsSeasonal() && seasonal.S < 2 {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidOrder, "seasonal order %s needs a period of at least 2", seasonal),
			"use s=4 for quarterly data")
	}
	return nil
}

// ParseOrder parses "p,d,q" (parentheses optional).
func ParseOrder(s string) (Order, error) {
	v, err := parseInts(s, 3)
	if err != nil {
		return Order{}, errors.Wrapf(err, "parse order %q", s)
	}
	o := Order{P: v[0], D: v[1], Q: v[2]}
	return o, Validate(o, SeasonalOrder{})
}

// ParseSeasonalOrder parses "P,D,Q,s" (parentheses optional).
func ParseSeasonalOrder(s string) (SeasonalOrder, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return SeasonalOrder{}, errors.Wrapf(err, "parse seasonal order %q", s)
	}
	o := SeasonalOrder{P: v[0], D: v[1], Q: v[2], S: v[3]}
	return o, Validate(Order{}, o)
}

func parseInts(s string, n int) ([]int, error) {
	s = strings.Trim(strings.TrimSpace(s), "()[]")
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Wrapf(ErrInvalidOrder, "expected %d comma-separated integers", n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Mark(err, ErrInvalidOrder)
		}
		out[i] = v
	}
	return out, nil
}
