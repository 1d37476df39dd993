package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/tsdeck/timeseries"
)

// ACF calculates the Autocorrelation Function for the given series.
// Returns ACF values for lags 0 to maxLag, or nil for a constant series.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	return acf(series.Values, maxLag)
}

func acf(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return nil
	}

	out := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		out[k] = sum / variance
	}
	return out
}

// PACF calculates the Partial Autocorrelation Function using the
// Durbin-Levinson algorithm. Returns PACF values for lags 0 to maxLag.
func PACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}

	r := ACF(series, maxLag)
	if r == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	phi := make([]float64, maxLag+1)
	prev := make([]float64, maxLag+1)
	phi[1] = r[1]
	pacf[1] = r[1]

	for k := 2; k <= maxLag; k++ {
		copy(prev, phi)
		num := r[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= prev[j] * r[k-j]
			den -= prev[j] * r[j]
		}
		if den == 0 {
			break
		}

		phi[k] = num / den
		pacf[k] = phi[k]
		for j := 1; j < k; j++ {
			phi[j] = prev[j] - phi[k]*prev[k-j]
		}
	}

	return pacf
}

// ACFResult represents the result of ACF analysis.
type ACFResult struct {
	Lags   []int
	Values []float64
	// ConfBounds is the white-noise bound z/sqrt(n).
	ConfBounds float64
	// Bands holds Bartlett's half-widths per lag; Bands[0] is 0.
	Bands []float64
	Alpha float64
}

// ACFWithConfidence calculates ACF with confidence bounds at level 1-alpha.
// Bands uses Bartlett's formula, which widens with the lag as earlier
// autocorrelations accumulate.
func ACFWithConfidence(series *timeseries.Series, maxLag int, alpha float64) *ACFResult {
	r := ACF(series, maxLag)
	if r == nil {
		return nil
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}

	n := float64(series.Len())
	z := distuv.UnitNormal.Quantile(1 - alpha/2)

	bands := make([]float64, len(r))
	cum := 0.0
	for k := 1; k < len(r); k++ {
		bands[k] = z * math.Sqrt((1+2*cum)/n)
		cum += r[k] * r[k]
	}

	return &ACFResult{
		Lags:       lagIndex(len(r)),
		Values:     r,
		ConfBounds: z / math.Sqrt(n),
		Bands:      bands,
		Alpha:      alpha,
	}
}

// PACFResult represents the result of PACF analysis.
type PACFResult struct {
	Lags       []int
	Values     []float64
	ConfBounds float64
	Alpha      float64
}

// PACFWithConfidence calculates PACF with the bound z/sqrt(n) at level 1-alpha.
func PACFWithConfidence(series *timeseries.Series, maxLag int, alpha float64) *PACFResult {
	p := PACF(series, maxLag)
	if p == nil {
		return nil
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}

	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	return &PACFResult{
		Lags:       lagIndex(len(p)),
		Values:     p,
		ConfBounds: z / math.Sqrt(float64(series.Len())),
		Alpha:      alpha,
	}
}

// SignificantLags returns the lags where ACF/PACF values exceed confidence bounds.
func SignificantLags(values []float64, confBound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ { // Skip lag 0
		if math.Abs(values[i]) > confBound {
			significant = append(significant, i)
		}
	}
	return significant
}

func lagIndex(n int) []int {
	lags := make([]int, n)
	for i := range lags {
		lags[i] = i
	}
	return lags
}
