package sarimax

import "math"

// Lag polynomials are stored as coefficients c where c[i] multiplies B^i
// and c[0] is 1.

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// arPolynomial returns 1 - c_1 B^step - ... - c_k B^(k*step).
func arPolynomial(coef []float64, step int) []float64 {
	out := make([]float64, len(coef)*step+1)
	out[0] = 1
	for i, c := range coef {
		out[(i+1)*step] = -c
	}
	return out
}

// maPolynomial returns 1 + c_1 B^step + ... + c_k B^(k*step).
func maPolynomial(coef []float64, step int) []float64 {
	out := make([]float64, len(coef)*step+1)
	out[0] = 1
	for i, c := range coef {
		out[(i+1)*step] = c
	}
	return out
}

// differencingPolynomial returns (1-B)^d (1-B^s)^D.
func differencingPolynomial(d, seasonalD, s int) []float64 {
	out := []float64{1}
	for i := 0; i < d; i++ {
		out = polyMul(out, []float64{1, -1})
	}
	if seasonalD > 0 {
		season := make([]float64, s+1)
		season[0], season[s] = 1, -1
		for i := 0; i < seasonalD; i++ {
			out = polyMul(out, season)
		}
	}
	return out
}

// applyPolynomial filters x by poly, dropping the first len(poly)-1
// observations that lack a complete history.
func applyPolynomial(poly, x []float64) []float64 {
	deg := len(poly) - 1
	if len(x) <= deg {
		return nil
	}
	out := make([]float64, len(x)-deg)
	for t := range out {
		v := 0.0
		for i, c := range poly {
			v += c * x[t+deg-i]
		}
		out[t] = v
	}
	return out
}

// psiWeights expands ma(B)/ar(B) into its first n MA(infinity) weights.
func psiWeights(ar, ma []float64, n int) []float64 {
	psi := make([]float64, n)
	for j := 0; j < n; j++ {
		v := 0.0
		if j < len(ma) {
			v = ma[j]
		}
		for i := 1; i <= j && i < len(ar); i++ {
			v -= ar[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

// constrainStationary maps unconstrained reals to the coefficients of a
// stationary AR polynomial 1 - phi_1 B - ... - phi_p B^p through partial
// autocorrelations r = x/sqrt(1+x^2) and the Durbin-Levinson recursion.
func constrainStationary(x []float64) []float64 {
	p := len(x)
	phi := make([]float64, p)
	prev := make([]float64, p)
	for k := 0; k < p; k++ {
		r := x[k] / math.Sqrt(1+x[k]*x[k])
		copy(prev, phi)
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - r*prev[k-1-j]
		}
		phi[k] = r
	}
	return phi
}

// maxPartial bounds recovered partial autocorrelations when the input
// polynomial is on or outside the stationarity boundary.
const maxPartial = 0.99

// unconstrainStationary inverts constrainStationary.
func unconstrainStationary(phi []float64) []float64 {
	p := len(phi)
	cur := make([]float64, p)
	copy(cur, phi)
	x := make([]float64, p)
	next := make([]float64, p)
	for k := p - 1; k >= 0; k-- {
		r := math.Max(-maxPartial, math.Min(maxPartial, cur[k]))
		x[k] = r / math.Sqrt(1-r*r)
		den := 1 - r*r
		for j := 0; j < k; j++ {
			next[j] = (cur[j] + r*cur[k-1-j]) / den
		}
		copy(cur[:k], next[:k])
	}
	return x
}

// isStationary reports whether all roots of the AR polynomial
// 1 - phi_1 B - ... lie outside the unit circle, using the backward
// Durbin-Levinson recursion.
func isStationary(phi []float64) bool {
	p := len(phi)
	cur := make([]float64, p)
	copy(cur, phi)
	next := make([]float64, p)
	for k := p - 1; k >= 0; k-- {
		r := cur[k]
		if math.Abs(r) >= 1 {
			return false
		}
		den := 1 - r*r
		for j := 0; j < k; j++ {
			next[j] = (cur[j] + r*cur[k-1-j]) / den
		}
		copy(cur[:k], next[:k])
	}
	return true
}
