package sarimax

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/timeseries"
)

// ErrInvalidSteps is returned for a non-positive forecast horizon.
var ErrInvalidSteps = errors.New("steps must be at least 1")

// Forecast holds out-of-sample predictions on the original scale.
type Forecast struct {
	Timestamps []time.Time
	Mean       []float64
	StdErr     []float64
	Lower      []float64
	Upper      []float64
	Alpha      float64
}

// Series returns the point forecasts as a series named after the input.
func (f *Forecast) Series(name string) *timeseries.Series {
	return &timeseries.Series{Timestamps: f.Timestamps, Values: f.Mean, Name: name + "_forecast"}
}

// Predict returns point forecasts for the next steps observations.
func (m *Model) Predict(steps int) ([]float64, error) {
	fc, err := m.Forecast(steps, nil)
	if err != nil {
		return nil, err
	}
	return fc.Mean, nil
}

// Forecast predicts steps observations ahead with (1-alpha) intervals.
// futureExog holds one row per step when the model has regressors.
func (m *Model) Forecast(steps int, futureExog [][]float64) (*Forecast, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, errors.Wrapf(ErrInvalidSteps, "got %d", steps)
	}
	if err := m.checkFutureExog(futureExog, steps); err != nil {
		return nil, err
	}

	comp := m.problem.split(m.params)
	n := len(m.w)

	// Regression errors on the differenced scale; future innovations are zero.
	w := make([]float64, n+steps)
	copy(w, m.w)
	e := make([]float64, n+steps)
	copy(e, m.e)
	for t := n; t < n+steps; t++ {
		v := 0.0
		for i := 1; i < len(comp.arPoly) && i <= t; i++ {
			v -= comp.arPoly[i] * w[t-i]
		}
		for j := 1; j < len(comp.maPoly) && j <= t; j++ {
			v += comp.maPoly[j] * e[t-j]
		}
		w[t] = v
	}

	var xf [][]float64
	if len(m.exogNames) > 0 {
		all := append(append([][]float64{}, m.exog...), futureExog...)
		diffed := m.differenceExog(all)
		xf = diffed[len(diffed)-steps:]
	}

	z := make([]float64, steps)
	for h := range z {
		v := w[n+h] + comp.mu
		for j, b := range comp.beta {
			v += b * xf[h][j]
		}
		z[h] = v
	}

	mean := m.integrate(z)

	psi := psiWeights(polyMul(comp.arPoly, m.diffPoly), comp.maPoly, steps)
	q := distuv.UnitNormal.Quantile(1 - m.alpha/2)
	fc := &Forecast{
		Timestamps: m.data.FutureTimestamps(steps),
		Mean:       mean,
		StdErr:     make([]float64, steps),
		Lower:      make([]float64, steps),
		Upper:      make([]float64, steps),
		Alpha:      m.alpha,
	}
	cum := 0.0
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		se := math.Sqrt(m.sigma2 * cum)
		fc.StdErr[h] = se
		fc.Lower[h] = mean[h] - q*se
		fc.Upper[h] = mean[h] + q*se
	}
	return fc, nil
}

// integrate undoes the differencing: y_t = z_t - sum_{i>=1} delta_i y_{t-i}.
func (m *Model) integrate(z []float64) []float64 {
	hist := m.data.Values
	n := len(hist)
	y := make([]float64, n+len(z))
	copy(y, hist)
	for h, v := range z {
		t := n + h
		for i := 1; i < len(m.diffPoly); i++ {
			v -= m.diffPoly[i] * y[t-i]
		}
		y[t] = v
	}
	return y[n:]
}

func (m *Model) checkFutureExog(rows [][]float64, steps int) error {
	if len(m.exogNames) == 0 {
		if len(rows) > 0 {
			return errors.Wrap(ErrExogShape, "model has no exogenous regressors")
		}
		return nil
	}
	if len(rows) != steps {
		return errors.Wrapf(ErrExogShape, "%d future exogenous rows for %d steps", len(rows), steps)
	}
	for i, row := range rows {
		if len(row) != len(m.exogNames) {
			return errors.Wrapf(ErrExogShape, "future row %d has %d values, expected %d", i, len(row), len(m.exogNames))
		}
	}
	return nil
}
