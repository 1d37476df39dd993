package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsdeck/internal/errors"
)

var (
	// ErrInsufficientData is returned when a test or regression has too few observations.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrSingularDesign is returned when a regression design matrix is rank deficient.
	ErrSingularDesign = errors.New("singular design matrix")
)

// OLSResult holds an ordinary least squares fit of y on the columns of X.
type OLSResult struct {
	Params  []float64
	StdErr  []float64
	TValues []float64
	Resid   []float64
	SSR     float64
	NObs    int
	LogLik  float64
}

// AIC is the Akaike criterion with one parameter per regressor.
func (r *OLSResult) AIC() float64 {
	return -2*r.LogLik + 2*float64(len(r.Params))
}

// BIC is the Schwarz criterion with one parameter per regressor.
func (r *OLSResult) BIC() float64 {
	return -2*r.LogLik + float64(len(r.Params))*math.Log(float64(r.NObs))
}

// OLS regresses y on the columns of x through the normal equations.
func OLS(y []float64, x mat.Matrix) (*OLSResult, error) {
	n, k := x.Dims()
	if n != len(y) {
		return nil, errors.Newf("ols: %d rows in design, %d observations", n, len(y))
	}
	if n <= k {
		return nil, errors.Wrapf(ErrInsufficientData, "ols: %d observations for %d regressors", n, k)
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, ErrSingularDesign
	}

	yv := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(x.T(), yv)

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "ols"), ErrSingularDesign)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	resid := make([]float64, n)
	ssr := 0.0
	for i := range resid {
		resid[i] = y[i] - fitted.AtVec(i)
		ssr += resid[i] * resid[i]
	}

	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "ols"), ErrSingularDesign)
	}
	s2 := ssr / float64(n-k)

	params := make([]float64, k)
	stdErr := make([]float64, k)
	tValues := make([]float64, k)
	for j := 0; j < k; j++ {
		params[j] = beta.AtVec(j)
		stdErr[j] = math.Sqrt(s2 * cov.At(j, j))
		tValues[j] = params[j] / stdErr[j]
	}

	nf := float64(n)
	return &OLSResult{
		Params:  params,
		StdErr:  stdErr,
		TValues: tValues,
		Resid:   resid,
		SSR:     ssr,
		NObs:    n,
		LogLik:  -nf / 2 * (math.Log(2*math.Pi) + math.Log(ssr/nf) + 1),
	}, nil
}

// laggedMatrix returns the matrix whose column j holds series shifted back by
// j observations, trimmed so that every row is complete. Column 0 is the
// contemporaneous value.
func laggedMatrix(series []float64, maxLag int) *mat.Dense {
	r, c := len(series)-maxLag, maxLag+1
	m := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			m.Set(i, j, series[maxLag-j+i])
		}
	}
	return m
}

// withTrend returns x extended by deterministic terms: a constant for "c",
// constant and linear trend (1..n) for "ct". prepend places them first.
func withTrend(x mat.Matrix, regression string, prepend bool) *mat.Dense {
	r, c := x.Dims()
	nt := trendTerms(regression)
	out := mat.NewDense(r, c+nt, nil)

	off, toff := 0, c
	if prepend {
		off, toff = nt, 0
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, off+j, x.At(i, j))
		}
		if nt >= 1 {
			out.Set(i, toff, 1)
		}
		if nt >= 2 {
			out.Set(i, toff+1, float64(i+1))
		}
	}
	return out
}

func trendTerms(regression string) int {
	switch regression {
	case "c":
		return 1
	case "ct":
		return 2
	default:
		return 0
	}
}
