package selection

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/sarimax"
	"github.com/sartorproj/tsdeck/timeseries"
)

// OrderSelectOptions configures ARMAOrderSelectIC.
type OrderSelectOptions struct {
	MaxAR    int // largest AR order; zero scores only MA terms
	MaxMA    int
	Criteria []string // default ["bic"]
	Trend    string   // "c" (default) or "n"
	Logger   *zap.SugaredLogger
}

func (o *OrderSelectOptions) withDefaults() error {
	if o.MaxAR < 0 || o.MaxMA < 0 {
		return errors.Wrapf(sarimax.ErrInvalidOrder, "max_ar=%d max_ma=%d", o.MaxAR, o.MaxMA)
	}
	if len(o.Criteria) == 0 {
		o.Criteria = []string{"bic"}
	}
	for _, c := range o.Criteria {
		if err := checkCriterion(c); err != nil {
			return err
		}
	}
	if o.Trend == "" {
		o.Trend = sarimax.TrendConstant
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return nil
}

// ICGrid holds one criterion evaluated over ARMA(p,q), indexed [p][q].
// Failed fits are NaN.
type ICGrid struct {
	Criterion string
	Values    [][]float64
	Best      sarimax.Order
	BestValue float64
}

// OrderSelectResult holds one grid per requested criterion.
type OrderSelectResult struct {
	MaxAR, MaxMA int
	Criteria     []string
	Grids        map[string]*ICGrid
	Failed       int
}

// MinOrder returns the minimising order for criterion.
func (r *OrderSelectResult) MinOrder(criterion string) (sarimax.Order, bool) {
	g, ok := r.Grids[criterion]
	if !ok {
		return sarimax.Order{}, false
	}
	return g.Best, true
}

// ARMAOrderSelectIC fits ARMA(p,q) for every p <= MaxAR and q <= MaxMA and
// tabulates the requested information criteria. Each order is fitted once
// and scored by all criteria. Ties keep the smaller (p, q).
func ARMAOrderSelectIC(ctx context.Context, series *timeseries.Series, opts OrderSelectOptions) (*OrderSelectResult, error) {
	if err := opts.withDefaults(); err != nil {
		return nil, err
	}

	res := &OrderSelectResult{
		MaxAR:    opts.MaxAR,
		MaxMA:    opts.MaxMA,
		Criteria: opts.Criteria,
		Grids:    make(map[string]*ICGrid, len(opts.Criteria)),
	}
	for _, c := range opts.Criteria {
		values := make([][]float64, opts.MaxAR+1)
		for p := range values {
			values[p] = make([]float64, opts.MaxMA+1)
			for q := range values[p] {
				values[p][q] = math.NaN()
			}
		}
		res.Grids[c] = &ICGrid{Criterion: c, Values: values, BestValue: math.Inf(1)}
	}

	for p := 0; p <= opts.MaxAR; p++ {
		for q := 0; q <= opts.MaxMA; q++ {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "order selection cancelled")
			}
			order := sarimax.Order{P: p, Q: q}
			model, err := fit(ctx, series, order, sarimax.SeasonalOrder{},
				[]sarimax.Option{sarimax.WithTrend(opts.Trend), sarimax.WithLogger(opts.Logger)})
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, errors.Wrap(ctxErr, "order selection cancelled")
				}
				res.Failed++
				opts.Logger.Debugw("ARMA fit failed", "order", order.String(), "error", err)
				continue
			}
			for _, c := range opts.Criteria {
				v, _ := model.Criterion(c)
				g := res.Grids[c]
				g.Values[p][q] = v
				if v < g.BestValue {
					g.BestValue = v
					g.Best = order
				}
			}
		}
	}

	if res.Failed == (opts.MaxAR+1)*(opts.MaxMA+1) {
		return nil, errors.Wrapf(ErrNoModel, "ARMA orders up to (%d,%d)", opts.MaxAR, opts.MaxMA)
	}
	for _, c := range opts.Criteria {
		g := res.Grids[c]
		opts.Logger.Infow("Order selection", "criterion", c, "best", g.Best.String(), "value", g.BestValue)
	}
	return res, nil
}
