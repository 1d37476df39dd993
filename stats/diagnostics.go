package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/tsdeck/timeseries"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int // Degrees of freedom
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals.
// The null hypothesis is that there is no autocorrelation up to lag h.
// fitdf is the number of estimated ARMA parameters (p + q + P + Q).
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	r := ACF(series, lags)
	if r == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (r[k] * r[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)
	return &LjungBoxResult{
		Statistic: q,
		PValue:    chiSquaredSF(q, dof),
		Lags:      lags,
		DOF:       dof,
	}
}

// BoxPierceResult represents the result of a Box-Pierce test.
type BoxPierceResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// BoxPierce performs the Box-Pierce test for autocorrelation.
// Similar to Ljung-Box but without the small-sample weighting.
func BoxPierce(series *timeseries.Series, lags, fitdf int) *BoxPierceResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	r := ACF(series, lags)
	if r == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += r[k] * r[k]
	}
	q *= float64(n)

	dof := max(lags-fitdf, 1)
	return &BoxPierceResult{
		Statistic: q,
		PValue:    chiSquaredSF(q, dof),
		Lags:      lags,
		DOF:       dof,
	}
}

func chiSquaredSF(x float64, dof int) float64 {
	return distuv.ChiSquared{K: float64(dof)}.Survival(x)
}

// DurbinWatsonResult represents the result of a Durbin-Watson test.
type DurbinWatsonResult struct {
	Statistic float64
	// d ≈ 2: no autocorrelation
	// d < 2: positive autocorrelation
	// d > 2: negative autocorrelation
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order autocorrelation.
func DurbinWatson(residuals []float64) *DurbinWatsonResult {
	n := len(residuals)
	if n < 2 {
		return nil
	}

	numerator := 0.0
	for i := 1; i < n; i++ {
		d := residuals[i] - residuals[i-1]
		numerator += d * d
	}
	denominator := 0.0
	for _, r := range residuals {
		denominator += r * r
	}
	if denominator == 0 {
		return nil
	}

	return &DurbinWatsonResult{Statistic: numerator / denominator}
}

// JarqueBeraResult represents the result of a Jarque-Bera normality test.
type JarqueBeraResult struct {
	Statistic float64
	PValue    float64
	Skew      float64
	Kurtosis  float64 // not excess; 3 for a normal sample
}

// JarqueBera tests residuals for normality from their sample skewness and
// kurtosis. The null hypothesis is normally distributed residuals.
func JarqueBera(residuals []float64) *JarqueBeraResult {
	n := len(residuals)
	if n < 3 {
		return nil
	}
	m2 := stat.Moment(2, residuals, nil)
	if m2 == 0 {
		return nil
	}
	skew := stat.Moment(3, residuals, nil) / math.Pow(m2, 1.5)
	kurt := stat.Moment(4, residuals, nil) / (m2 * m2)

	jb := float64(n) / 6 * (skew*skew + (kurt-3)*(kurt-3)/4)
	return &JarqueBeraResult{
		Statistic: jb,
		PValue:    chiSquaredSF(jb, 2),
		Skew:      skew,
		Kurtosis:  kurt,
	}
}
