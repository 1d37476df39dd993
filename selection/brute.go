package selection

import (
	"context"
	"math"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/internal/recorder"
	"github.com/sartorproj/tsdeck/sarimax"
	"github.com/sartorproj/tsdeck/timeseries"
)

// FailurePenalty is the score of a grid point whose model cannot be fitted.
// It keeps the search going and can never win against a fitted model.
const FailurePenalty = 1e10

// ErrInvalidRange is returned for a malformed "lo:hi" range.
var ErrInvalidRange = errors.New("invalid grid range")

// Range is an inclusive integer range.
type Range struct {
	Lo, Hi int
}

// ParseRange parses "lo:hi" or a single integer.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	lo, hi, found := strings.Cut(s, ":")
	if !found {
		hi = lo
	}
	a, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Range{}, errors.Wrapf(ErrInvalidRange, "%q", s)
	}
	b, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return Range{}, errors.Wrapf(ErrInvalidRange, "%q", s)
	}
	r := Range{Lo: a, Hi: b}
	return r, r.validate()
}

func (r Range) validate() error {
	if r.Lo < 0 || r.Hi < r.Lo {
		return errors.Wrapf(ErrInvalidRange, "%d:%d", r.Lo, r.Hi)
	}
	return nil
}

// Values lists the integers in the range.
func (r Range) Values() []int {
	out := make([]int, 0, r.Hi-r.Lo+1)
	for v := r.Lo; v <= r.Hi; v++ {
		out = append(out, v)
	}
	return out
}

func (r Range) String() string {
	return strconv.Itoa(r.Lo) + ":" + strconv.Itoa(r.Hi)
}

// Grid spans the seven hyperparameters (p, d, q, P, D, Q, s).
type Grid struct {
	P, D, Q    Range
	SP, SD, SQ Range
	S          Range
}

// ParseGrid builds a grid from seven "lo:hi" ranges.
func ParseGrid(p, d, q, sp, sd, sq, s string) (Grid, error) {
	var g Grid
	for _, f := range []struct {
		name string
		src  string
		dst  *Range
	}{
		{"p", p, &g.P}, {"d", d, &g.D}, {"q", q, &g.Q},
		{"sp", sp, &g.SP}, {"sd", sd, &g.SD}, {"sq", sq, &g.SQ},
		{"s", s, &g.S},
	} {
		r, err := ParseRange(f.src)
		if err != nil {
			return Grid{}, errors.Wrapf(err, "grid dimension %s", f.name)
		}
		*f.dst = r
	}
	return g, nil
}

// Point is one model in the grid.
type Point struct {
	Order    sarimax.Order
	Seasonal sarimax.SeasonalOrder
}

func (p Point) String() string {
	return p.Order.String() + "x" + p.Seasonal.String()
}

// Points enumerates the grid with p varying slowest and s fastest.
func (g Grid) Points() []Point {
	out := make([]Point, 0, g.Size())
	for _, p := range g.P.Values() {
		for _, d := range g.D.Values() {
			for _, q := range g.Q.Values() {
				for _, sp := range g.SP.Values() {
					for _, sd := range g.SD.Values() {
						for _, sq := range g.SQ.Values() {
							for _, s := range g.S.Values() {
								out = append(out, Point{
									Order:    sarimax.Order{P: p, D: d, Q: q},
									Seasonal: sarimax.SeasonalOrder{P: sp, D: sd, Q: sq, S: s},
								})
							}
						}
					}
				}
			}
		}
	}
	return out
}

// Size is the number of grid points.
func (g Grid) Size() int {
	n := 1
	for _, r := range []Range{g.P, g.D, g.Q, g.SP, g.SD, g.SQ, g.S} {
		n *= r.Hi - r.Lo + 1
	}
	return n
}

// ObjectiveFunc scores one grid point. A failing fit scores FailurePenalty
// and reports why.
type ObjectiveFunc func(Point) (float64, error)

// Objective returns the scoring function used by Brute: the criterion of
// the fitted model, or FailurePenalty when the fit fails.
func Objective(ctx context.Context, series *timeseries.Series, criterion string, opts ...sarimax.Option) ObjectiveFunc {
	return func(pt Point) (float64, error) {
		if err := checkCriterion(criterion); err != nil {
			return FailurePenalty, err
		}
		model, err := fit(ctx, series, pt.Order, pt.Seasonal, opts)
		if err != nil {
			return FailurePenalty, err
		}
		v, err := model.Criterion(criterion)
		if err != nil {
			return FailurePenalty, err
		}
		if math.IsInf(v, 1) {
			return FailurePenalty, errors.Wrapf(sarimax.ErrNonFinite, "%s = +Inf", criterion)
		}
		return v, nil
	}
}

// BruteOptions configures Brute.
type BruteOptions struct {
	Criterion string // default "aic"
	Workers   int    // default GOMAXPROCS
	MaxIter   int
	Logger    *zap.SugaredLogger
}

// Evaluation is the outcome of one grid point.
type Evaluation struct {
	Point
	Score float64
	Err   error
}

// Failed reports whether the point scored the failure penalty.
func (e Evaluation) Failed() bool { return e.Err != nil }

// BruteResult holds every evaluation in grid order and the minimiser.
type BruteResult struct {
	Criterion   string
	Evaluations []Evaluation
	Best        Evaluation
	BestIndex   int
}

// Failures counts the penalised points.
func (r *BruteResult) Failures() int {
	n := 0
	for _, e := range r.Evaluations {
		if e.Failed() {
			n++
		}
	}
	return n
}

// GridEvaluations converts the evaluations for the result recorder.
func (r *BruteResult) GridEvaluations() []recorder.GridEvaluation {
	out := make([]recorder.GridEvaluation, len(r.Evaluations))
	for i, e := range r.Evaluations {
		out[i] = recorder.GridEvaluation{
			Order:    e.Order.String(),
			Seasonal: e.Seasonal.String(),
			Score:    e.Score,
			Failed:   e.Failed(),
		}
		if e.Err != nil {
			out[i].Error = e.Err.Error()
		}
	}
	return out
}

// Brute evaluates every point of grid and returns the one with the lowest
// score. Points are fitted concurrently by a bounded worker group; the
// winner is the first minimum in grid order, as a sequential scan would
// find it.
func Brute(ctx context.Context, series *timeseries.Series, grid Grid, opts BruteOptions) (*BruteResult, error) {
	if opts.Criterion == "" {
		opts.Criterion = "aic"
	}
	if err := checkCriterion(opts.Criterion); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	for _, r := range []Range{grid.P, grid.D, grid.Q, grid.SP, grid.SD, grid.SQ, grid.S} {
		if err := r.validate(); err != nil {
			return nil, err
		}
	}

	modelOpts := []sarimax.Option{sarimax.WithLogger(opts.Logger)}
	if opts.MaxIter > 0 {
		modelOpts = append(modelOpts, sarimax.WithMaxIter(opts.MaxIter))
	}
	objective := Objective(ctx, series, opts.Criterion, modelOpts...)

	points := grid.Points()
	evals := make([]Evaluation, len(points))

	opts.Logger.Infow("Starting grid search",
		"points", grid.Size(),
		"criterion", opts.Criterion,
		"workers", opts.Workers)

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, pt := range points {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			score, err := objective(pt)
			evals[i] = Evaluation{Point: pt, Score: score, Err: err}
			if err != nil {
				opts.Logger.Debugw("Grid point penalised", "point", pt.String(), "error", err)
			} else {
				opts.Logger.Debugw("Grid point scored", "point", pt.String(), opts.Criterion, score)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "grid search cancelled")
	}

	res := &BruteResult{Criterion: opts.Criterion, Evaluations: evals}
	for i, e := range evals {
		if i == 0 || e.Score < res.Best.Score {
			res.Best = e
			res.BestIndex = i
		}
	}

	opts.Logger.Infow("Grid search finished",
		"best", res.Best.String(),
		opts.Criterion, res.Best.Score,
		"failures", res.Failures())
	return res, nil
}
