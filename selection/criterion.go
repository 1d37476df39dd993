package selection

import (
	"context"
	"math"
	"strings"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/sarimax"
	"github.com/sartorproj/tsdeck/timeseries"
)

var (
	// ErrUnknownCriterion is returned for a criterion other than aic, aicc, bic or hqic.
	ErrUnknownCriterion = errors.New("unknown information criterion")
	// ErrNoModel is returned when no candidate model could be fitted.
	ErrNoModel = errors.New("no candidate model could be fitted")
)

// Criteria lists the supported information criteria.
var Criteria = []string{"aic", "aicc", "bic", "hqic"}

// ParseCriteria splits a comma-separated list such as "aic,bic" and checks
// every entry.
func ParseCriteria(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if err := checkCriterion(name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(ErrUnknownCriterion, "empty list %q", s)
	}
	return out, nil
}

func checkCriterion(name string) error {
	for _, c := range Criteria {
		if c == name {
			return nil
		}
	}
	return errors.WithHintf(errors.Wrapf(ErrUnknownCriterion, "%q", name), "choose one of %s", strings.Join(Criteria, ", "))
}

// fit estimates one candidate and checks that every score is finite.
func fit(ctx context.Context, series *timeseries.Series, order sarimax.Order, seasonal sarimax.SeasonalOrder, opts []sarimax.Option) (*sarimax.Model, error) {
	model := sarimax.New(order, seasonal, opts...)
	if err := model.Fit(ctx, series); err != nil {
		return nil, err
	}
	for _, name := range Criteria {
		v, err := model.Criterion(name)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, -1) {
			return nil, errors.Wrapf(sarimax.ErrNonFinite, "%s = %v", name, v)
		}
	}
	return model, nil
}
