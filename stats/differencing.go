package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/tsdeck/timeseries"
)

// NDiffs determines the number of first differences required for stationarity.
// maxD is the maximum number of differences to consider (default 2).
// testType can be "kpss" (default), "adf" or "pp".
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD <= 0 {
		maxD = 2
	}
	if testType == "" {
		testType = "kpss"
	}

	current := series
	for d := 0; d < maxD; d++ {
		if isStationary(current, testType) {
			return d
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}

	return maxD
}

// isStationary treats a failing test as non-stationary.
func isStationary(series *timeseries.Series, testType string) bool {
	switch testType {
	case "adf":
		res, err := ADF(series, ADFOptions{})
		return err == nil && res.IsStationary(DefaultAlpha)
	case "pp":
		res, err := PhillipsPerron(series, 0)
		return err == nil && res.IsStationary(DefaultAlpha)
	default:
		res, err := KPSS(series, KPSSOptions{})
		return err == nil && res.IsStationary(DefaultAlpha)
	}
}

// NSDiffs determines the number of seasonal differences required.
// Uses seasonal strength measure: if F_S >= 0.64, one seasonal difference is suggested.
// period is the seasonal period (e.g., 4 for quarterly data with yearly seasonality).
func NSDiffs(series *timeseries.Series, period int, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	if period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if seasonalStrength(current, period) < 0.64 {
			return d
		}

		current = current.SeasonalDiff(period)
		if current.Len() < 2*period {
			return d
		}
	}

	return maxD
}

// seasonalStrength calculates the strength of seasonality (F_S).
// F_S = max(0, 1 - Var(R) / Var(S+R))
// where S is seasonal component and R is residual.
func seasonalStrength(series *timeseries.Series, period int) float64 {
	decomp, err := Decompose(series, period, Additive)
	if err != nil {
		return 0
	}

	varR := variance(decomp.Residual.Values)

	seasonalPlusResid := make([]float64, len(decomp.Seasonal.Values))
	for i := range seasonalPlusResid {
		seasonalPlusResid[i] = decomp.Seasonal.Values[i] + decomp.Residual.Values[i]
	}
	varSR := variance(seasonalPlusResid)
	if varSR == 0 {
		return 0
	}

	return math.Max(0, 1-varR/varSR)
}

// variance calculates the sample variance of a slice, ignoring NaN values.
func variance(data []float64) float64 {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) < 2 {
		return 0
	}
	return stat.Variance(valid, nil)
}

// AICc calculates the corrected Akaike Information Criterion.
// AICc = AIC + 2(k)(k+1)/(n-k-1) where k is number of parameters.
func AICc(aic float64, nObs int, nParams int) float64 {
	k := float64(nParams)
	n := float64(nObs)

	if n-k-1 <= 0 {
		return math.Inf(1)
	}
	return aic + 2*k*(k+1)/(n-k-1)
}

// InformationCriteria holds the usual likelihood-based model scores.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	HQIC   float64
	LogLik float64
}

// CalculateIC calculates all information criteria.
// logLik is the log-likelihood, nObs is the number of observations,
// nParams is the number of estimated parameters.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	return &InformationCriteria{
		AIC:    aic,
		AICc:   AICc(aic, nObs, nParams),
		BIC:    -2*logLik + k*math.Log(n),
		HQIC:   -2*logLik + 2*k*math.Log(math.Log(n)),
		LogLik: logLik,
	}
}

// Criterion returns the named score ("aic", "aicc", "bic" or "hqic").
func (ic *InformationCriteria) Criterion(name string) (float64, bool) {
	switch name {
	case "aic":
		return ic.AIC, true
	case "aicc":
		return ic.AICc, true
	case "bic":
		return ic.BIC, true
	case "hqic":
		return ic.HQIC, true
	default:
		return math.NaN(), false
	}
}
