package sarimax

import (
	"context"
	"math"
	"slices"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

var (
	// ErrInsufficientData is returned when the differenced series is too short for the order.
	ErrInsufficientData = errors.New("insufficient data points for the specified order")
	// ErrNotFitted is returned when results are requested before Fit succeeds.
	ErrNotFitted = errors.New("model must be fitted first")
	// ErrExogShape is returned when exogenous rows do not line up with the series.
	ErrExogShape = errors.New("exogenous regressors do not match the series")
	// ErrNonFinite is returned when the likelihood cannot be evaluated.
	ErrNonFinite = errors.New("non-finite likelihood")
)

// Trend specifications.
const (
	TrendAuto     = ""  // constant without differencing, none otherwise
	TrendNone     = "n" // no deterministic term
	TrendConstant = "c" // constant (a drift once differenced)
)

const (
	defaultMaxIter = 1000
	defaultAlpha   = 0.05
	// minResidualDOF is the minimum number of residuals beyond the
	// estimated parameters.
	minResidualDOF = 5
)

// Option configures a Model.
type Option func(*Model)

// WithTrend sets the deterministic term: "n" or "c".
func WithTrend(trend string) Option {
	return func(m *Model) { m.trend = trend }
}

// WithExog adds exogenous regressors. rows holds one row per observation
// with one column per name.
func WithExog(names []string, rows [][]float64) Option {
	return func(m *Model) {
		m.exogNames = slices.Clone(names)
		m.exog = rows
	}
}

// WithMaxIter bounds the optimiser iterations.
func WithMaxIter(n int) Option {
	return func(m *Model) { m.maxIter = n }
}

// WithAlpha sets the significance level for confidence intervals.
func WithAlpha(alpha float64) Option {
	return func(m *Model) { m.alpha = alpha }
}

// WithLogger sets the logger used for fit diagnostics.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(m *Model) { m.logger = logger }
}

// Model is a regression with seasonal ARIMA errors,
//
//	y_t = c + x_t'b + u_t,  phi(B) Phi(B^s) (1-B)^d (1-B^s)^D u_t = theta(B) Theta(B^s) e_t,
//
// estimated by conditional sum of squares on the differenced data.
type Model struct {
	order     Order
	seasonal  SeasonalOrder
	trend     string
	exogNames []string
	exog      [][]float64
	maxIter   int
	alpha     float64
	logger    *zap.SugaredLogger

	fitted     bool
	data       *timeseries.Series
	problem    *cssProblem
	diffPoly   []float64
	params     []float64
	stdErr     []float64
	sigma2     float64
	logLik     float64
	ic         *stats.InformationCriteria
	w          []float64 // regression errors on the differenced scale
	e          []float64 // innovations, zero over the conditioning window
	residuals  []float64
	converged  bool
	iterations int
}

// New creates a model with the given orders. The seasonal order may be the
// zero value for a non-seasonal model.
func New(order Order, seasonal SeasonalOrder, opts ...Option) *Model {
	m := &Model{
		order:    order,
		seasonal: seasonal,
		maxIter:  defaultMaxIter,
		alpha:    defaultAlpha,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.trend == TrendAuto {
		m.trend = TrendConstant
		if order.D+seasonal.D > 0 {
			m.trend = TrendNone
		}
	}
	if m.seasonal.S == 0 && !m.seasonal.IsSeasonal() {
		m.seasonal.S = 1
	}
	return m
}

// Order returns the non-seasonal order.
func (m *Model) Order() Order { return m.order }

// SeasonalOrder returns the seasonal order.
func (m *Model) SeasonalOrder() SeasonalOrder { return m.seasonal }

// Fit estimates the model on series. Cancelling ctx stops the optimiser.
func (m *Model) Fit(ctx context.Context, series *timeseries.Series) error {
	m.fitted = false
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate(m.order, m.seasonal); err != nil {
		return err
	}
	if m.trend != TrendNone && m.trend != TrendConstant {
		return errors.Wrapf(ErrInvalidOrder, "unknown trend %q", m.trend)
	}
	if err := series.Validate(); err != nil {
		return errors.Wrap(err, "fit")
	}
	if err := m.checkExog(m.exog, series.Len()); err != nil {
		return err
	}

	m.data = series
	m.diffPoly = differencingPolynomial(m.order.D, m.seasonal.D, m.seasonal.S)

	prob := &cssProblem{
		z:     applyPolynomial(m.diffPoly, series.Values),
		trend: m.trend == TrendConstant,
		nExog: len(m.exogNames),
		p:     m.order.P,
		q:     m.order.Q,
		sp:    m.seasonal.P,
		sq:    m.seasonal.Q,
		s:     m.seasonal.S,
	}
	if prob.nExog > 0 {
		prob.x = m.differenceExog(m.exog)
	}
	if prob.z == nil || prob.nEff() < prob.nParams()+minResidualDOF {
		return errors.Wrapf(ErrInsufficientData, "%d observations for SARIMAX%s%s", series.Len(), m.order, m.seasonal)
	}
	m.problem = prob

	x0 := prob.untransform(prob.startParams())
	objective := func(x []float64) float64 {
		f := prob.negLogLik(prob.transform(x))
		if math.IsNaN(f) {
			return math.Inf(1)
		}
		return f
	}
	if math.IsInf(objective(x0), 0) {
		return errors.Wrap(ErrNonFinite, "at the starting values")
	}

	params := prob.transform(x0)
	if len(x0) > 0 {
		settings := &optimize.Settings{
			MajorIterations: m.maxIter,
			Converger: &contextConverger{
				ctx:  ctx,
				base: &optimize.FunctionConverge{Absolute: 1e-8, Relative: 1e-8, Iterations: 50},
			},
		}
		result, err := optimize.Minimize(optimize.Problem{Func: objective}, x0, settings, &optimize.NelderMead{})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrap(ctxErr, "fit cancelled")
		}
		if err != nil {
			return errors.Wrapf(err, "optimise SARIMAX%s%s", m.order, m.seasonal)
		}
		params = prob.transform(result.X)
		m.converged = result.Status == optimize.FunctionConvergence
		m.iterations = result.Stats.MajorIterations
	} else {
		m.converged = true
	}

	w, e, sse := prob.residuals(params)
	neff := prob.nEff()
	m.sigma2 = sse / float64(neff)
	if !(m.sigma2 > 0) || math.IsInf(m.sigma2, 0) {
		return errors.Wrapf(ErrNonFinite, "innovation variance %v", m.sigma2)
	}
	m.params = params
	m.w = w
	m.e = e
	m.residuals = e[prob.conditioning():]
	m.logLik = -prob.negLogLik(params)
	m.ic = stats.CalculateIC(m.logLik, neff, len(params)+1)
	m.stdErr = m.standardErrors(params)
	m.fitted = true

	m.logger.Debugw("Fitted SARIMAX",
		"order", m.order.String(),
		"seasonal_order", m.seasonal.String(),
		"nobs", neff,
		"loglik", m.logLik,
		"aic", m.ic.AIC,
		"converged", m.converged,
		"iterations", m.iterations)
	if !m.converged {
		m.logger.Infow("SARIMAX optimiser stopped before convergence",
			"order", m.order.String(),
			"seasonal_order", m.seasonal.String(),
			"iterations", m.iterations)
	}
	return nil
}

func (m *Model) checkExog(rows [][]float64, n int) error {
	if len(m.exogNames) == 0 {
		if len(rows) > 0 {
			return errors.Wrap(ErrExogShape, "exogenous rows given without names")
		}
		return nil
	}
	if len(rows) != n {
		return errors.Wrapf(ErrExogShape, "%d exogenous rows for %d observations", len(rows), n)
	}
	for i, row := range rows {
		if len(row) != len(m.exogNames) {
			return errors.Wrapf(ErrExogShape, "row %d has %d values, expected %d", i, len(row), len(m.exogNames))
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrExogShape, "row %d holds a missing value", i)
			}
		}
	}
	return nil
}

// differenceExog applies the differencing polynomial to every regressor.
func (m *Model) differenceExog(rows [][]float64) [][]float64 {
	k := len(m.exogNames)
	deg := len(m.diffPoly) - 1
	if len(rows) <= deg {
		return nil
	}
	out := make([][]float64, len(rows)-deg)
	col := make([]float64, len(rows))
	for j := 0; j < k; j++ {
		for t, row := range rows {
			col[t] = row[j]
		}
		for t, v := range applyPolynomial(m.diffPoly, col) {
			if out[t] == nil {
				out[t] = make([]float64, k)
			}
			out[t][j] = v
		}
	}
	return out
}

// standardErrors inverts the numerical Hessian of the profile negative
// log-likelihood at params. Entries are NaN when the Hessian is singular.
func (m *Model) standardErrors(params []float64) []float64 {
	k := len(params)
	se := make([]float64, k)
	for i := range se {
		se[i] = math.NaN()
	}
	if k == 0 {
		return se
	}

	hess := mat.NewSymDense(k, nil)
	fd.Hessian(hess, m.problem.negLogLik, params, nil)

	var cov mat.Matrix
	var chol mat.Cholesky
	if chol.Factorize(hess) {
		var inv mat.SymDense
		if err := chol.InverseTo(&inv); err != nil {
			return se
		}
		cov = &inv
	} else {
		var inv mat.Dense
		if err := inv.Inverse(hess); err != nil {
			return se
		}
		cov = &inv
	}
	for i := range se {
		if v := cov.At(i, i); v > 0 {
			se[i] = math.Sqrt(v)
		}
	}
	return se
}

// contextConverger stops the optimiser once ctx is done.
type contextConverger struct {
	ctx  context.Context
	base optimize.Converger
}

func (c *contextConverger) Init(dim int) { c.base.Init(dim) }

func (c *contextConverger) Converged(loc *optimize.Location) optimize.Status {
	if c.ctx.Err() != nil {
		return optimize.RuntimeLimit
	}
	return c.base.Converged(loc)
}

// Coefficient is one estimated parameter with its inference.
type Coefficient struct {
	Name   string
	Value  float64
	StdErr float64
	Z      float64
	P      float64
	Lower  float64
	Upper  float64
}

// ParamNames returns the parameter names in estimation order, ending in sigma2.
func (m *Model) ParamNames() []string {
	var names []string
	if m.trend == TrendConstant {
		names = append(names, "const")
	}
	names = append(names, m.exogNames...)
	lagNames := func(prefix string, n, step int) {
		for i := 1; i <= n; i++ {
			names = append(names, prefix+strconv.Itoa(i*step))
		}
	}
	lagNames("ar.L", m.order.P, 1)
	lagNames("ma.L", m.order.Q, 1)
	lagNames("ar.S.L", m.seasonal.P, m.seasonal.S)
	lagNames("ma.S.L", m.seasonal.Q, m.seasonal.S)
	return append(names, "sigma2")
}

// Params returns the estimates with standard errors, z statistics,
// two-sided p-values and (1-alpha) confidence intervals.
func (m *Model) Params() ([]Coefficient, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	names := m.ParamNames()
	values := append(slices.Clone(m.params), m.sigma2)
	se := append(slices.Clone(m.stdErr), m.sigma2*math.Sqrt(2/float64(len(m.residuals))))

	z := distuv.UnitNormal.Quantile(1 - m.alpha/2)
	out := make([]Coefficient, len(values))
	for i, v := range values {
		c := Coefficient{Name: names[i], Value: v, StdErr: se[i]}
		c.Z = v / se[i]
		c.P = 2 * distuv.UnitNormal.Survival(math.Abs(c.Z))
		c.Lower = v - z*se[i]
		c.Upper = v + z*se[i]
		out[i] = c
	}
	return out, nil
}

// Residuals returns the one-step-ahead innovations after the conditioning window.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return slices.Clone(m.residuals)
}

// ResidualSeries returns the residuals indexed by their observation dates.
func (m *Model) ResidualSeries() *timeseries.Series {
	if !m.fitted {
		return nil
	}
	n := len(m.residuals)
	ts := m.data.Timestamps[len(m.data.Timestamps)-n:]
	return &timeseries.Series{
		Timestamps: slices.Clone(ts),
		Values:     slices.Clone(m.residuals),
		Name:       m.data.Name + "_resid",
	}
}

// FittedValues returns one-step-ahead predictions on the original scale,
// aligned with the input series. Observations consumed by differencing and
// AR conditioning are NaN.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	n := m.data.Len()
	out := make([]float64, n)
	skip := n - len(m.residuals)
	for t := range out {
		if t < skip {
			out[t] = math.NaN()
			continue
		}
		out[t] = m.data.Values[t] - m.residuals[t-skip]
	}
	return out
}

// Sigma2 returns the innovation variance.
func (m *Model) Sigma2() float64 { return m.sigma2 }

// LogLik returns the conditional log-likelihood.
func (m *Model) LogLik() float64 { return m.logLik }

// NObs returns the number of residuals entering the likelihood.
func (m *Model) NObs() int { return len(m.residuals) }

// AIC returns the Akaike information criterion.
func (m *Model) AIC() float64 { return m.criterion("aic") }

// AICc returns the small-sample corrected AIC.
func (m *Model) AICc() float64 { return m.criterion("aicc") }

// BIC returns the Bayesian information criterion.
func (m *Model) BIC() float64 { return m.criterion("bic") }

// HQIC returns the Hannan-Quinn information criterion.
func (m *Model) HQIC() float64 { return m.criterion("hqic") }

// Criterion returns the named information criterion.
func (m *Model) Criterion(name string) (float64, error) {
	if !m.fitted {
		return math.NaN(), ErrNotFitted
	}
	v, ok := m.ic.Criterion(name)
	if !ok {
		return math.NaN(), errors.Newf("unknown information criterion %q", name)
	}
	return v, nil
}

func (m *Model) criterion(name string) float64 {
	v, _ := m.Criterion(name)
	return v
}

// Converged reports whether the optimiser met its convergence criterion.
func (m *Model) Converged() bool { return m.converged }
