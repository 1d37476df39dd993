package sarimax

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

// cssProblem is the conditional sum of squares objective on the
// differenced data. Parameters are laid out as
// [const][exog...][ar 1..p][ma 1..q][seasonal ar 1..P][seasonal ma 1..Q].
type cssProblem struct {
	z     []float64   // differenced endogenous series
	x     [][]float64 // differenced exogenous rows, nil without regressors
	trend bool
	nExog int

	p, q, sp, sq, s int
}

func (c *cssProblem) nParams() int {
	n := c.nExog + c.p + c.q + c.sp + c.sq
	if c.trend {
		n++
	}
	return n
}

// conditioning is the number of leading observations the AR part consumes.
func (c *cssProblem) conditioning() int {
	return c.p + c.sp*c.s
}

func (c *cssProblem) nEff() int {
	return len(c.z) - c.conditioning()
}

type components struct {
	mu               float64
	beta             []float64
	ar, ma, sar, sma []float64
	arPoly, maPoly   []float64
}

func (c *cssProblem) split(params []float64) components {
	var out components
	i := 0
	if c.trend {
		out.mu = params[0]
		i++
	}
	take := func(n int) []float64 {
		v := params[i : i+n]
		i += n
		return v
	}
	out.beta = take(c.nExog)
	out.ar = take(c.p)
	out.ma = take(c.q)
	out.sar = take(c.sp)
	out.sma = take(c.sq)
	out.arPoly = polyMul(arPolynomial(out.ar, 1), arPolynomial(out.sar, c.s))
	out.maPoly = polyMul(maPolynomial(out.ma, 1), maPolynomial(out.sma, c.s))
	return out
}

// transform maps an unconstrained vector onto stationary AR and invertible
// MA polynomials. Regression coefficients pass through unchanged.
func (c *cssProblem) transform(x []float64) []float64 {
	out := slices.Clone(x)
	i := c.nExog
	if c.trend {
		i++
	}
	for _, block := range []struct {
		n  int
		ma bool
	}{{c.p, false}, {c.q, true}, {c.sp, false}, {c.sq, true}} {
		v := constrainStationary(x[i : i+block.n])
		if block.ma {
			for j := range v {
				v[j] = -v[j]
			}
		}
		copy(out[i:i+block.n], v)
		i += block.n
	}
	return out
}

func (c *cssProblem) untransform(params []float64) []float64 {
	out := slices.Clone(params)
	i := c.nExog
	if c.trend {
		i++
	}
	for _, block := range []struct {
		n  int
		ma bool
	}{{c.p, false}, {c.q, true}, {c.sp, false}, {c.sq, true}} {
		v := slices.Clone(params[i : i+block.n])
		if block.ma {
			for j := range v {
				v[j] = -v[j]
			}
		}
		copy(out[i:i+block.n], unconstrainStationary(v))
		i += block.n
	}
	return out
}

// residuals returns the regression errors w, the conditional residuals e and
// their sum of squares. e is zero over the conditioning window.
func (c *cssProblem) residuals(params []float64) (w, e []float64, sse float64) {
	comp := c.split(params)
	n := len(c.z)
	w = make([]float64, n)
	for t, v := range c.z {
		v -= comp.mu
		if c.x != nil {
			for j, b := range comp.beta {
				v -= b * c.x[t][j]
			}
		}
		w[t] = v
	}

	e = make([]float64, n)
	for t := c.conditioning(); t < n; t++ {
		v := 0.0
		for i, a := range comp.arPoly {
			v += a * w[t-i]
		}
		for j := 1; j < len(comp.maPoly) && j <= t; j++ {
			v -= comp.maPoly[j] * e[t-j]
		}
		e[t] = v
		sse += v * v
	}
	return w, e, sse
}

// negLogLik is the Gaussian conditional negative log-likelihood with the
// innovation variance concentrated out.
func (c *cssProblem) negLogLik(params []float64) float64 {
	_, _, sse := c.residuals(params)
	n := float64(c.nEff())
	sigma2 := sse / n
	if !(sigma2 > 0) || math.IsInf(sigma2, 0) {
		return math.Inf(1)
	}
	return n / 2 * (math.Log(2*math.Pi*sigma2) + 1)
}

// startParams returns constrained starting values: regression by OLS,
// non-seasonal AR by Yule-Walker, everything else zero.
func (c *cssProblem) startParams() []float64 {
	params := make([]float64, c.nParams())
	k := c.nExog
	if c.trend {
		k++
	}

	w := slices.Clone(c.z)
	if k > 0 {
		design := mat.NewDense(len(c.z), k, nil)
		for t := range c.z {
			j := 0
			if c.trend {
				design.Set(t, 0, 1)
				j++
			}
			for e := 0; e < c.nExog; e++ {
				design.Set(t, j+e, c.x[t][e])
			}
		}
		if res, err := stats.OLS(c.z, design); err == nil {
			copy(params[:k], res.Params)
			w = res.Resid
		}
	}

	if c.p > 0 {
		if r := stats.ACF(timeseries.New(w), c.p); r != nil {
			if phi, _ := stats.YuleWalker(r, c.p); phi != nil && isStationary(phi) {
				copy(params[k:k+c.p], phi)
			}
		}
	}
	return params
}
