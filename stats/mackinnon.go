package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// MacKinnon (1994) response surface for the single-variable unit root
// distribution, keyed by deterministic terms.
var (
	tauMax  = map[string]float64{"n": 1.51, "c": 2.74, "ct": 0.7}
	tauMin  = map[string]float64{"n": -19.04, "c": -18.83, "ct": -16.18}
	tauStar = map[string]float64{"n": -1.04, "c": -1.61, "ct": -2.89}

	tauSmallP = map[string][]float64{
		"n":  {0.6344, 1.2378, 0.032496},
		"c":  {2.1659, 1.4412, 0.038269},
		"ct": {3.2512, 1.6047, 0.049588},
	}
	tauLargeP = map[string][]float64{
		"n":  {0.4797, 0.93557, -0.06999, 0.033066},
		"c":  {1.7339, 0.93202, -0.12745, -0.010368},
		"ct": {2.5261, 0.61654, -0.37956, -0.060285},
	}
)

// MacKinnon (2010) finite-sample critical values at 1%, 5% and 10%.
var tau2010 = map[string][3][4]float64{
	"n": {
		{-2.56574, -2.2358, -3.627, 0},
		{-1.94100, -0.2686, -3.365, 31.223},
		{-1.61682, 0.2656, -2.714, 25.364},
	},
	"c": {
		{-3.43035, -6.5393, -16.786, -79.433},
		{-2.86154, -2.8903, -4.234, -40.040},
		{-2.56677, -1.5384, -2.809, 0},
	},
	"ct": {
		{-3.95877, -9.0531, -28.428, -134.155},
		{-3.41049, -4.3904, -9.036, -45.374},
		{-3.12705, -2.5856, -3.925, -22.380},
	},
}

// MacKinnonPValue returns the approximate p-value of a Dickey-Fuller
// statistic for the given deterministic terms ("n", "c" or "ct").
func MacKinnonPValue(stat float64, regression string) float64 {
	if _, ok := tauMax[regression]; !ok {
		regression = "c"
	}
	switch {
	case stat > tauMax[regression]:
		return 1
	case stat < tauMin[regression]:
		return 0
	}
	coef := tauLargeP[regression]
	if stat <= tauStar[regression] {
		coef = tauSmallP[regression]
	}
	return distuv.UnitNormal.CDF(polyval(coef, stat))
}

// MacKinnonCriticalValues returns the 1%, 5% and 10% critical values of
// the Dickey-Fuller statistic for a regression with nobs observations.
func MacKinnonCriticalValues(regression string, nobs int) map[string]float64 {
	table, ok := tau2010[regression]
	if !ok {
		table = tau2010["c"]
	}
	inv := 1 / float64(nobs)
	return map[string]float64{
		"1%":  polyval(table[0][:], inv),
		"5%":  polyval(table[1][:], inv),
		"10%": polyval(table[2][:], inv),
	}
}

// polyval evaluates coef[0] + coef[1]*x + coef[2]*x^2 + ...
func polyval(coef []float64, x float64) float64 {
	v := 0.0
	for i := len(coef) - 1; i >= 0; i-- {
		v = v*x + coef[i]
	}
	return v
}
