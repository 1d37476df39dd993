package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/timeseries"
)

// ErrInvalidOption is returned for an unknown regression or lag method.
var ErrInvalidOption = errors.New("invalid option")

// Lag selection methods for ADF.
const (
	AutoLagAIC   = "AIC"
	AutoLagBIC   = "BIC"
	AutoLagTStat = "t-stat"
	AutoLagNone  = "none"
)

// tStatStop is the 10% two-sided normal quantile used by t-stat lag selection.
const tStatStop = 1.6448536269514722

// ADFOptions configures the Augmented Dickey-Fuller test.
type ADFOptions struct {
	// MaxLag bounds the lagged differences. 0 selects ceil(12*(n/100)^(1/4)).
	MaxLag int
	// Regression is "n", "c" (default) or "ct".
	Regression string
	// AutoLag is AIC (default), BIC, t-stat or none.
	AutoLag string
}

// ADFResult represents the result of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic      float64
	PValue         float64
	UsedLag        int
	NObs           int
	CriticalValues map[string]float64 // 1%, 5%, 10%
	ICBest         float64            // NaN without automatic lag selection
	Regression     string
	AutoLag        string
}

// IsStationary reports whether the unit-root null is rejected at alpha.
func (r *ADFResult) IsStationary(alpha float64) bool {
	return r.PValue < alpha
}

// ADF performs the Augmented Dickey-Fuller test for a unit root.
// The null hypothesis is that the series has a unit root (is non-stationary).
//
// The lag order is chosen by minimising the information criterion over a
// common sample (or by the last significant lag for t-stat), and the test
// regression is then rerun on the largest sample the chosen lag allows.
func ADF(series *timeseries.Series, opts ADFOptions) (*ADFResult, error) {
	regression := opts.Regression
	if regression == "" {
		regression = "c"
	}
	if regression != "n" && regression != "c" && regression != "ct" {
		return nil, errors.Wrapf(ErrInvalidOption, "adf regression %q", regression)
	}
	autoLag := opts.AutoLag
	if autoLag == "" {
		autoLag = AutoLagAIC
	}
	switch autoLag {
	case AutoLagAIC, AutoLagBIC, AutoLagTStat, AutoLagNone:
	default:
		return nil, errors.Wrapf(ErrInvalidOption, "adf autolag %q", autoLag)
	}

	x := series.Values
	if err := checkFinite(x); err != nil {
		return nil, err
	}
	n := len(x)
	nt := trendTerms(regression)

	maxLag := opts.MaxLag
	if maxLag <= 0 {
		maxLag = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	maxLag = min(maxLag, n/2-nt-1)
	if maxLag < 0 {
		return nil, errors.Wrapf(ErrInsufficientData, "adf: %d observations", n)
	}

	xdiff := diff(x)
	usedLag := maxLag
	icBest := math.NaN()

	if autoLag != AutoLagNone {
		xdall := adfDesign(x, xdiff, maxLag)
		rows, _ := xdall.Dims()
		full := withTrend(xdall, regression, true)
		startLag := nt + 1

		bestLag, ic, err := selectLag(xdiff[len(xdiff)-rows:], full, startLag, maxLag, autoLag)
		if err != nil {
			return nil, errors.Wrap(err, "adf lag selection")
		}
		usedLag = bestLag - startLag
		icBest = ic
	}

	xdall := adfDesign(x, xdiff, usedLag)
	rows, _ := xdall.Dims()
	res, err := OLS(xdiff[len(xdiff)-rows:], withTrend(xdall, regression, false))
	if err != nil {
		return nil, errors.Wrap(err, "adf regression")
	}

	stat := res.TValues[0]
	return &ADFResult{
		Statistic:      stat,
		PValue:         MacKinnonPValue(stat, regression),
		UsedLag:        usedLag,
		NObs:           rows,
		CriticalValues: MacKinnonCriticalValues(regression, rows),
		ICBest:         icBest,
		Regression:     regression,
		AutoLag:        autoLag,
	}, nil
}

// adfDesign builds [y_{t-1}, dy_{t-1}, ..., dy_{t-lag}] aligned with dy_t.
func adfDesign(x, xdiff []float64, lag int) *mat.Dense {
	m := laggedMatrix(xdiff, lag)
	rows, _ := m.Dims()
	m.SetCol(0, x[len(x)-rows-1:len(x)-1])
	return m
}

// selectLag fits y on the first startLag..startLag+maxLag columns of full
// and returns the best column count with its criterion.
func selectLag(y []float64, full *mat.Dense, startLag, maxLag int, method string) (int, float64, error) {
	rows, _ := full.Dims()
	results := make(map[int]*OLSResult, maxLag+1)
	for lag := startLag; lag <= startLag+maxLag; lag++ {
		res, err := OLS(y, full.Slice(0, rows, 0, lag))
		if err != nil {
			return 0, 0, errors.Wrapf(err, "lag %d", lag-startLag)
		}
		results[lag] = res
	}

	if method == AutoLagTStat {
		bestLag := startLag + maxLag
		icBest := 0.0
		for lag := startLag + maxLag; lag >= startLag; lag-- {
			tv := results[lag].TValues
			icBest = math.Abs(tv[len(tv)-1])
			bestLag = lag
			if icBest >= tStatStop {
				break
			}
		}
		return bestLag, icBest, nil
	}

	lags := make([]int, 0, len(results))
	for lag := range results {
		lags = append(lags, lag)
	}
	sort.Ints(lags)

	bestLag, icBest := startLag, math.Inf(1)
	for _, lag := range lags {
		ic := results[lag].AIC()
		if method == AutoLagBIC {
			ic = results[lag].BIC()
		}
		if ic < icBest {
			bestLag, icBest = lag, ic
		}
	}
	return bestLag, icBest, nil
}

// Bandwidth selection methods for KPSS.
const (
	KPSSLagsAuto   = "auto"
	KPSSLagsLegacy = "legacy"
	KPSSLagsFixed  = "fixed"
)

var (
	kpssPValues   = []float64{0.10, 0.05, 0.025, 0.01}
	kpssCritLevel = []float64{0.347, 0.463, 0.574, 0.739}
	kpssCritTrend = []float64{0.119, 0.146, 0.176, 0.216}
)

// KPSSOptions configures the KPSS test.
type KPSSOptions struct {
	// Regression is "c" (level stationarity, default) or "ct" (trend stationarity).
	Regression string
	// LagMethod is auto (Hobijn et al. 1998, default), legacy or fixed.
	LagMethod string
	// Lags is the Newey-West bandwidth when LagMethod is fixed.
	Lags int
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic      float64
	PValue         float64
	Lags           int
	CriticalValues map[string]float64 // 10%, 5%, 2.5%, 1%
	// PValueClipped is set when the statistic falls outside the tabulated
	// range and PValue is only a bound (0.01 or 0.10).
	PValueClipped bool
	Regression    string
}

// IsStationary reports whether the stationarity null survives at alpha.
func (r *KPSSResult) IsStationary(alpha float64) bool {
	return r.PValue >= alpha
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for stationarity.
// The null hypothesis is that the series is stationary around a level ("c")
// or a deterministic trend ("ct").
func KPSS(series *timeseries.Series, opts KPSSOptions) (*KPSSResult, error) {
	regression := opts.Regression
	if regression == "" {
		regression = "c"
	}
	x := series.Values
	if err := checkFinite(x); err != nil {
		return nil, err
	}
	n := len(x)
	if n < 3 {
		return nil, errors.Wrapf(ErrInsufficientData, "kpss: %d observations", n)
	}

	var resid []float64
	var crit []float64
	switch regression {
	case "c":
		mean := series.Mean()
		resid = make([]float64, n)
		for i, v := range x {
			resid[i] = v - mean
		}
		crit = kpssCritLevel
	case "ct":
		res, err := OLS(x, deterministic(n, "ct"))
		if err != nil {
			return nil, errors.Wrap(err, "kpss detrend")
		}
		resid = res.Resid
		crit = kpssCritTrend
	default:
		return nil, errors.Wrapf(ErrInvalidOption, "kpss regression %q", regression)
	}

	var lags int
	switch opts.LagMethod {
	case "", KPSSLagsAuto:
		lags = min(kpssAutoLag(resid), n-1)
	case KPSSLagsLegacy:
		lags = min(int(math.Ceil(12*math.Pow(float64(n)/100, 0.25))), n-1)
	case KPSSLagsFixed:
		if opts.Lags < 0 || opts.Lags >= n {
			return nil, errors.Wrapf(ErrInvalidOption, "kpss lags %d for %d observations", opts.Lags, n)
		}
		lags = opts.Lags
	default:
		return nil, errors.Wrapf(ErrInvalidOption, "kpss lag method %q", opts.LagMethod)
	}

	eta := 0.0
	partial := 0.0
	for _, r := range resid {
		partial += r
		eta += partial * partial
	}
	eta /= float64(n) * float64(n)

	sHat := longRunVariance(resid, lags)
	if sHat <= 0 {
		return nil, errors.Wrap(ErrInsufficientData, "kpss: series has no variation")
	}
	stat := eta / sHat

	p, clipped := interpolatePValue(stat, crit, kpssPValues)
	return &KPSSResult{
		Statistic: stat,
		PValue:    p,
		Lags:      lags,
		CriticalValues: map[string]float64{
			"10%":  crit[0],
			"5%":   crit[1],
			"2.5%": crit[2],
			"1%":   crit[3],
		},
		PValueClipped: clipped,
		Regression:    regression,
	}, nil
}

// longRunVariance is the Newey-West estimate with Bartlett weights.
func longRunVariance(resid []float64, lags int) float64 {
	n := len(resid)
	s := floats.Dot(resid, resid)
	for i := 1; i <= lags; i++ {
		s += 2 * floats.Dot(resid[i:], resid[:n-i]) * (1 - float64(i)/(float64(lags)+1))
	}
	return s / float64(n)
}

// kpssAutoLag is the data-dependent bandwidth of Hobijn et al. (1998).
func kpssAutoLag(resid []float64) int {
	n := len(resid)
	covLags := int(math.Pow(float64(n), 2.0/9.0))
	s0 := floats.Dot(resid, resid) / float64(n)
	s1 := 0.0
	for i := 1; i <= covLags && i < n; i++ {
		prod := floats.Dot(resid[i:], resid[:n-i]) / (float64(n) / 2)
		s0 += prod
		s1 += float64(i) * prod
	}
	if s0 == 0 {
		return 0
	}
	sHat := s1 / s0
	gamma := 1.1447 * math.Pow(sHat*sHat, 1.0/3.0)
	return int(gamma * math.Pow(float64(n), 1.0/3.0))
}

// interpolatePValue maps stat onto the p-values tabulated at the increasing
// critical values crit, clipping outside the table.
func interpolatePValue(stat float64, crit, pvals []float64) (float64, bool) {
	last := len(crit) - 1
	switch {
	case stat <= crit[0]:
		return pvals[0], true
	case stat >= crit[last]:
		return pvals[last], true
	}
	for i := 1; i <= last; i++ {
		if stat <= crit[i] {
			w := (stat - crit[i-1]) / (crit[i] - crit[i-1])
			return pvals[i-1] + w*(pvals[i]-pvals[i-1]), false
		}
	}
	return pvals[last], true
}

// PhillipsPerronResult represents the result of a Phillips-Perron test.
type PhillipsPerronResult struct {
	Statistic      float64
	PValue         float64
	Lags           int
	CriticalValues map[string]float64
}

// IsStationary reports whether the unit-root null is rejected at alpha.
func (r *PhillipsPerronResult) IsStationary(alpha float64) bool {
	return r.PValue < alpha
}

// PhillipsPerron performs the Phillips-Perron Z-tau test for a unit root
// with a constant. Serial correlation is handled by a Newey-West correction
// of the Dickey-Fuller t-statistic instead of lagged differences.
func PhillipsPerron(series *timeseries.Series, nlags int) (*PhillipsPerronResult, error) {
	x := series.Values
	if err := checkFinite(x); err != nil {
		return nil, err
	}
	n := len(x)
	if n < 10 {
		return nil, errors.Wrapf(ErrInsufficientData, "phillips-perron: %d observations", n)
	}
	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	// Regress y_t on a constant and y_{t-1}.
	nObs := n - 1
	design := mat.NewDense(nObs, 2, nil)
	for i := 0; i < nObs; i++ {
		design.Set(i, 0, 1)
		design.Set(i, 1, x[i])
	}
	res, err := OLS(x[1:], design)
	if err != nil {
		return nil, errors.Wrap(err, "phillips-perron regression")
	}

	// The slope on y_{t-1} is rho; testing rho = 1.
	rho, se := res.Params[1], res.StdErr[1]
	tStat := (rho - 1) / se

	T := float64(nObs)
	gamma0 := floats.Dot(res.Resid, res.Resid) / T
	lambda2 := longRunVariance(res.Resid, min(nlags, nObs-1))
	s := math.Sqrt(res.SSR / (T - 2))
	if lambda2 <= 0 || s == 0 {
		return nil, errors.Wrap(ErrInsufficientData, "phillips-perron: degenerate residual variance")
	}

	lambda := math.Sqrt(lambda2)
	stat := math.Sqrt(gamma0/lambda2)*tStat - (lambda2-gamma0)/(2*lambda)*(T*se/s)

	return &PhillipsPerronResult{
		Statistic:      stat,
		PValue:         MacKinnonPValue(stat, "c"),
		Lags:           nlags,
		CriticalValues: MacKinnonCriticalValues("c", nObs),
	}, nil
}

// deterministic returns the n x k matrix of deterministic regressors.
func deterministic(n int, regression string) *mat.Dense {
	k := trendTerms(regression)
	m := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		m.Set(i, 0, 1)
		if k > 1 {
			m.Set(i, 1, float64(i+1))
		}
	}
	return m
}

func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(timeseries.ErrMissingValue, "position %d", i)
		}
	}
	return nil
}

func diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	y := make([]float64, len(x)-1)
	for i := range y {
		y[i] = x[i+1] - x[i]
	}
	return y
}
