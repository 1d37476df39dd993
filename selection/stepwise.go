package selection

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/sarimax"
	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

// AutoConfig holds configuration for the automatic ARIMA search.
type AutoConfig struct {
	MaxP        int    // Maximum AR order (default: 5)
	MaxD        int    // Maximum differencing order (default: 2)
	MaxQ        int    // Maximum MA order (default: 5)
	MaxSP       int    // Maximum seasonal AR order (default: 2)
	MaxSD       int    // Maximum seasonal differencing order (default: 1)
	MaxSQ       int    // Maximum seasonal MA order (default: 2)
	Seasonal    bool   // Whether to consider seasonal models
	Period      int    // Seasonal period (required if Seasonal=true)
	Stepwise    bool   // Use stepwise search instead of exhaustive
	Criterion   string // Information criterion (default: "aic")
	StationTest string // Unit root test for d: "kpss", "adf" or "pp" (default: "kpss")
	Logger      *zap.SugaredLogger
}

// DefaultAutoConfig returns the default automatic search configuration.
func DefaultAutoConfig() *AutoConfig {
	return &AutoConfig{
		MaxP:        5,
		MaxD:        2,
		MaxQ:        5,
		MaxSP:       2,
		MaxSD:       1,
		MaxSQ:       2,
		Stepwise:    true,
		Criterion:   "aic",
		StationTest: "kpss",
	}
}

// AutoResult is the model chosen by AutoARIMA.
type AutoResult struct {
	Model    *sarimax.Model
	Order    sarimax.Order
	Seasonal sarimax.SeasonalOrder

	AIC       float64
	BIC       float64
	LogLik    float64
	Criterion float64

	ModelsEvaluated int
}

// Predict generates forecasts using the selected model.
func (r *AutoResult) Predict(steps int) ([]float64, error) {
	return r.Model.Predict(steps)
}

// Residuals returns the residuals of the selected model.
func (r *AutoResult) Residuals() []float64 {
	return r.Model.Residuals()
}

// AutoARIMA picks the differencing orders with unit root tests and then
// searches (p, q) and, when seasonal, (P, Q) by the configured criterion.
func AutoARIMA(ctx context.Context, series *timeseries.Series, config *AutoConfig) (*AutoResult, error) {
	if config == nil {
		config = DefaultAutoConfig()
	}
	if config.Criterion == "" {
		config.Criterion = "aic"
	}
	if err := checkCriterion(config.Criterion); err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}
	if config.Seasonal && config.Period < 2 {
		return nil, errors.WithHint(
			errors.Wrapf(sarimax.ErrInvalidOrder, "seasonal search needs a period, got %d", config.Period),
			"set Period to 4 for quarterly data")
	}

	s := &searcher{ctx: ctx, series: series, config: config, best: math.Inf(1)}

	if config.Seasonal {
		s.sd = stats.NSDiffs(series, config.Period, config.MaxSD)
		s.period = config.Period
	}
	adjusted := series
	for i := 0; i < s.sd; i++ {
		adjusted = adjusted.SeasonalDiff(config.Period)
	}
	s.d = stats.NDiffs(adjusted, config.MaxD, config.StationTest)

	config.Logger.Infow("Differencing selected", "d", s.d, "D", s.sd, "test", config.StationTest)

	if config.Stepwise {
		s.stepwise()
	} else {
		s.exhaustive()
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "auto ARIMA cancelled")
	}
	if s.model == nil {
		return nil, errors.Wrapf(ErrNoModel, "d=%d D=%d", s.d, s.sd)
	}

	return &AutoResult{
		Model:           s.model,
		Order:           s.model.Order(),
		Seasonal:        s.model.SeasonalOrder(),
		AIC:             s.model.AIC(),
		BIC:             s.model.BIC(),
		LogLik:          s.model.LogLik(),
		Criterion:       s.best,
		ModelsEvaluated: s.evaluated,
	}, nil
}

type modelSpec struct {
	p, q, sp, sq int
}

type searcher struct {
	ctx    context.Context
	series *timeseries.Series
	config *AutoConfig

	d, sd, period int

	bestSpec  modelSpec
	best      float64
	model     *sarimax.Model
	evaluated int
}

func (s *searcher) inBounds(spec modelSpec) bool {
	maxSP, maxSQ := 0, 0
	if s.config.Seasonal {
		maxSP, maxSQ = s.config.MaxSP, s.config.MaxSQ
	}
	return spec.p >= 0 && spec.p <= s.config.MaxP &&
		spec.q >= 0 && spec.q <= s.config.MaxQ &&
		spec.sp >= 0 && spec.sp <= maxSP &&
		spec.sq >= 0 && spec.sq <= maxSQ
}

// try fits spec and reports whether it improved on the best model.
func (s *searcher) try(spec modelSpec) bool {
	if !s.inBounds(spec) || s.ctx.Err() != nil {
		return false
	}
	order := sarimax.Order{P: spec.p, D: s.d, Q: spec.q}
	seasonal := sarimax.SeasonalOrder{P: spec.sp, D: s.sd, Q: spec.sq, S: s.period}
	model, err := fit(s.ctx, s.series, order, seasonal, []sarimax.Option{sarimax.WithLogger(s.config.Logger)})
	if err != nil {
		s.config.Logger.Debugw("Candidate failed", "order", order.String(), "seasonal_order", seasonal.String(), "error", err)
		return false
	}

	s.evaluated++
	criterion, _ := model.Criterion(s.config.Criterion)
	if criterion < s.best {
		s.best = criterion
		s.bestSpec = spec
		s.model = model
		return true
	}
	return false
}

func (s *searcher) exhaustive() {
	for p := 0; p <= s.config.MaxP; p++ {
		for q := 0; q <= s.config.MaxQ; q++ {
			for sp := 0; sp <= s.config.MaxSP; sp++ {
				for sq := 0; sq <= s.config.MaxSQ; sq++ {
					s.try(modelSpec{p, q, sp, sq})
				}
			}
		}
	}
}

func (s *searcher) stepwise() {
	// Start with simple models
	starts := []modelSpec{{0, 0, 0, 0}, {1, 0, 0, 0}, {0, 1, 0, 0}, {1, 1, 0, 0}, {2, 2, 0, 0}}
	if s.config.Seasonal {
		starts = []modelSpec{{0, 0, 0, 0}, {1, 0, 1, 0}, {0, 1, 0, 1}, {1, 1, 1, 1}, {2, 2, 1, 1}}
	}
	for _, spec := range starts {
		s.try(spec)
	}
	if s.model == nil {
		return
	}

	improved := true
	for improved {
		improved = false
		b := s.bestSpec
		neighbors := []modelSpec{
			{b.p + 1, b.q, b.sp, b.sq},
			{b.p - 1, b.q, b.sp, b.sq},
			{b.p, b.q + 1, b.sp, b.sq},
			{b.p, b.q - 1, b.sp, b.sq},
			{b.p + 1, b.q + 1, b.sp, b.sq},
			{b.p - 1, b.q - 1, b.sp, b.sq},
			{b.p, b.q, b.sp + 1, b.sq},
			{b.p, b.q, b.sp - 1, b.sq},
			{b.p, b.q, b.sp, b.sq + 1},
			{b.p, b.q, b.sp, b.sq - 1},
		}
		for _, spec := range neighbors {
			if s.try(spec) {
				improved = true
			}
		}
	}
}
