package plot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/stats"
)

// stems draws values as vertical lines from zero with a dot at each tip,
// over a shaded confidence region of half-width bounds[k].
func stems(title string, lags []int, values, bounds []float64) (*plot.Plot, error) {
	p := newPlot(title, "", false)
	p.X.Label.Text = "lag"

	x := make([]float64, 0, len(lags))
	lower := make([]float64, 0, len(lags))
	upper := make([]float64, 0, len(lags))
	for i, k := range lags {
		if k == 0 {
			continue
		}
		x = append(x, float64(k))
		lower = append(lower, -bounds[i])
		upper = append(upper, bounds[i])
	}
	if len(x) > 0 {
		poly, err := band(x, lower, upper)
		if err != nil {
			return nil, err
		}
		p.Add(poly)
	}

	tips := make(plotter.XYs, len(lags))
	for i, k := range lags {
		tips[i] = plotter.XY{X: float64(k), Y: values[i]}
		l, err := plotter.NewLine(plotter.XYs{{X: float64(k), Y: 0}, {X: float64(k), Y: values[i]}})
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = plotutil.Color(0)
		p.Add(l)
	}
	sc, err := plotter.NewScatter(tips)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = plotutil.Color(0)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(sc)

	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: float64(lags[len(lags)-1]), Y: 0}})
	if err != nil {
		return nil, err
	}
	p.Add(zero)
	p.Y.Min, p.Y.Max = -1.05, 1.05
	return p, nil
}

// CorrelogramPlot draws the ACF above the PACF. The ACF band follows
// Bartlett's formula and the PACF band is the white-noise bound.
func CorrelogramPlot(path, name string, acf *stats.ACFResult, pacf *stats.PACFResult) error {
	if acf == nil || pacf == nil || len(acf.Lags) < 2 || len(pacf.Lags) < 2 {
		return errors.Wrapf(ErrNoData, "correlogram of %q", name)
	}

	top, err := stems("Autocorrelation "+name, acf.Lags, acf.Values, acf.Bands)
	if err != nil {
		return errors.Wrap(err, "ACF panel")
	}

	bounds := make([]float64, len(pacf.Lags))
	for i := range bounds {
		bounds[i] = pacf.ConfBounds
	}
	bottom, err := stems("Partial autocorrelation "+name, pacf.Lags, pacf.Values, bounds)
	if err != nil {
		return errors.Wrap(err, "PACF panel")
	}

	return saveStack([]*plot.Plot{top, bottom}, path, Width, Height)
}
