package stats

import (
	"fmt"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/timeseries"
)

// DefaultAlpha is the significance threshold used by the stationarity check.
const DefaultAlpha = 0.05

// Verdict classifies a series by the joint outcome of ADF and KPSS.
type Verdict string

const (
	// Stationary: ADF rejects the unit root and KPSS keeps stationarity.
	Stationary Verdict = "stationary"
	// NonStationary: ADF keeps the unit root and KPSS rejects stationarity.
	NonStationary Verdict = "non-stationary"
	// TrendStationary: neither test rejects; detrend before modelling.
	TrendStationary Verdict = "trend-stationary"
	// DifferenceStationary: both tests reject; difference before modelling.
	DifferenceStationary Verdict = "difference-stationary"
)

// Advice returns the usual next step for the verdict.
func (v Verdict) Advice() string {
	switch v {
	case Stationary:
		return "model the series as is"
	case NonStationary:
		return "difference the series and test again"
	case TrendStationary:
		return "remove the deterministic trend"
	case DifferenceStationary:
		return "difference the series to make it stationary"
	default:
		return ""
	}
}

// JointVerdict combines the two test decisions.
func JointVerdict(adfStationary, kpssStationary bool) Verdict {
	switch {
	case adfStationary && kpssStationary:
		return Stationary
	case !adfStationary && !kpssStationary:
		return NonStationary
	case !adfStationary && kpssStationary:
		return TrendStationary
	default:
		return DifferenceStationary
	}
}

// StationarityReport holds both tests and their decisions at Alpha.
type StationarityReport struct {
	Series string
	Alpha  float64
	ADF    *ADFResult
	KPSS   *KPSSResult

	ADFRejects  bool // unit root rejected
	KPSSRejects bool // stationarity rejected
	Verdict     Verdict
}

// ADFConclusion is the accept/reject sentence for the ADF test.
func (r *StationarityReport) ADFConclusion() string {
	if r.ADFRejects {
		return fmt.Sprintf("ADF p-value %.4f < %.2f: reject the unit root, the series is stationary", r.ADF.PValue, r.Alpha)
	}
	return fmt.Sprintf("ADF p-value %.4f >= %.2f: fail to reject the unit root, the series is non-stationary", r.ADF.PValue, r.Alpha)
}

// KPSSConclusion is the accept/reject sentence for the KPSS test.
func (r *StationarityReport) KPSSConclusion() string {
	bound := ""
	if r.KPSS.PValueClipped {
		if r.KPSSRejects {
			bound = " (or smaller)"
		} else {
			bound = " (or greater)"
		}
	}
	if r.KPSSRejects {
		return fmt.Sprintf("KPSS p-value %.4f%s < %.2f: reject stationarity, the series is non-stationary", r.KPSS.PValue, bound, r.Alpha)
	}
	return fmt.Sprintf("KPSS p-value %.4f%s >= %.2f: fail to reject stationarity, the series is stationary", r.KPSS.PValue, bound, r.Alpha)
}

// CheckStationarity runs ADF (constant, AIC lag selection) and KPSS
// (level, automatic bandwidth) and compares each p-value with alpha.
// A non-positive alpha selects DefaultAlpha.
func CheckStationarity(series *timeseries.Series, alpha float64) (*StationarityReport, error) {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	if alpha >= 1 {
		return nil, errors.Wrapf(ErrInvalidOption, "alpha %v outside (0, 1)", alpha)
	}

	adf, err := ADF(series, ADFOptions{Regression: "c", AutoLag: AutoLagAIC})
	if err != nil {
		return nil, errors.Wrapf(err, "stationarity check of %q", series.Name)
	}
	kpss, err := KPSS(series, KPSSOptions{Regression: "c", LagMethod: KPSSLagsAuto})
	if err != nil {
		return nil, errors.Wrapf(err, "stationarity check of %q", series.Name)
	}

	adfStationary := adf.IsStationary(alpha)
	kpssStationary := kpss.IsStationary(alpha)
	return &StationarityReport{
		Series:      series.Name,
		Alpha:       alpha,
		ADF:         adf,
		KPSS:        kpss,
		ADFRejects:  adfStationary,
		KPSSRejects: !kpssStationary,
		Verdict:     JointVerdict(adfStationary, kpssStationary),
	}, nil
}
