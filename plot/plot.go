package plot

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg" // png and jpg canvases
	_ "gonum.org/v1/plot/vg/vgsvg" // svg canvas

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/timeseries"
)

var (
	// ErrUnsupportedFormat is returned for a file extension other than png, jpg or svg.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrNoData is returned when there is nothing finite to draw.
	ErrNoData = errors.New("nothing to plot")
)

// Figure sizes.
var (
	Width       = 10 * vg.Inch
	Height      = 4 * vg.Inch
	PanelHeight = 2.5 * vg.Inch
)

var bandColor = color.NRGBA{R: 31, G: 119, B: 180, A: 48}

func format(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "jpg", "jpeg":
		return ext, nil
	default:
		return "", errors.WithHint(errors.Wrapf(ErrUnsupportedFormat, "%q", path), "use a .png or .svg file name")
	}
}

func newPlot(title, ylabel string, timeAxis bool) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Legend.Left = true
	if timeAxis {
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	}
	p.Add(plotter.NewGrid())
	return p
}

// save writes p to path in the format named by its extension.
func save(p *plot.Plot, path string, w, h vg.Length) error {
	if _, err := format(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	return errors.Wrapf(p.Save(w, h, path), "save %s", path)
}

// saveStack draws plots as vertically stacked panels sharing one canvas.
func saveStack(plots []*plot.Plot, path string, w, panel vg.Length) error {
	ext, err := format(path)
	if err != nil {
		return err
	}
	if ext == "jpeg" {
		ext = "jpg"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}

	c, err := draw.NewFormattedCanvas(w, panel*vg.Length(len(plots)), ext)
	if err != nil {
		return errors.Wrapf(err, "canvas for %s", path)
	}
	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	tiles := draw.Tiles{Rows: len(plots), Cols: 1, PadY: vg.Millimeter * 2, PadTop: vg.Millimeter, PadBottom: vg.Millimeter}
	canvases := plot.Align(grid, tiles, draw.New(c))
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if _, err := c.WriteTo(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

// segments splits a series at missing values so that gaps stay visible.
func segments(ts []time.Time, values []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(ts[i].Unix()), Y: v})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// addLine draws values against ts and adds one legend entry when name is set.
func addLine(p *plot.Plot, name string, ts []time.Time, values []float64, c color.Color, dashed bool) error {
	segs := segments(ts, values)
	if len(segs) == 0 {
		return errors.Wrapf(ErrNoData, "%q has no finite values", name)
	}
	for i, seg := range segs {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return errors.Wrapf(err, "line %q", name)
		}
		l.LineStyle.Color = c
		l.LineStyle.Width = vg.Points(1.2)
		if dashed {
			l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(l)
		if i == 0 && name != "" {
			p.Legend.Add(name, l)
		}
	}
	return nil
}

// band shades the area between lower and upper.
func band(x []float64, lower, upper []float64) (*plotter.Polygon, error) {
	ring := make(plotter.XYs, 0, 2*len(x))
	for i := range x {
		ring = append(ring, plotter.XY{X: x[i], Y: upper[i]})
	}
	for i := len(x) - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: x[i], Y: lower[i]})
	}
	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, err
	}
	poly.Color = bandColor
	poly.LineStyle.Width = 0
	return poly, nil
}

// SeriesPlot draws one or more series on a shared time axis.
func SeriesPlot(path, title string, series ...*timeseries.Series) error {
	if len(series) == 0 {
		return ErrNoData
	}
	p := newPlot(title, "", true)
	for i, s := range series {
		if err := addLine(p, s.Name, s.Timestamps, s.Values, plotutil.Color(i), false); err != nil {
			return err
		}
	}
	return save(p, path, Width, Height)
}

// RollingPlot draws a series with its trailing rolling mean and standard
// deviation, the usual visual check for a stable mean and variance.
func RollingPlot(path string, series *timeseries.Series, window int) error {
	mean, std := series.Rolling(window)
	mean.Name = "rolling mean"
	std.Name = "rolling std"
	title := series.Name + ": rolling mean and standard deviation"
	return SeriesPlot(path, title, series, mean, std)
}
