package deck

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/selection"
)

func orderSelectCell(ctx context.Context, s *Session, args Args) ([]Block, error) {
	maxAR, err := args.Int("max_ar", s.Selection.MaxAR)
	if err != nil {
		return nil, err
	}
	maxMA, err := args.Int("max_ma", s.Selection.MaxMA)
	if err != nil {
		return nil, err
	}
	criteria := s.Selection.Criteria
	if ic := args.String("ic", ""); ic != "" {
		if criteria, err = selection.ParseCriteria(ic); err != nil {
			return nil, err
		}
	}
	series, _, err := s.input(args)
	if err != nil {
		return nil, err
	}

	res, err := selection.ARMAOrderSelectIC(ctx, series, selection.OrderSelectOptions{
		MaxAR:    maxAR,
		MaxMA:    maxMA,
		Criteria: criteria,
		Logger:   s.Logger,
	})
	if err != nil {
		return nil, err
	}

	var blocks []Block
	var best Bullets
	for _, c := range res.Criteria {
		g := res.Grids[c]
		header := []string{"p \\ q"}
		for q := 0; q <= res.MaxMA; q++ {
			header = append(header, fmt.Sprint(q))
		}
		rows := [][]string{header}
		for p, row := range g.Values {
			line := []string{fmt.Sprint(p)}
			for _, v := range row {
				if math.IsNaN(v) {
					line = append(line, "failed")
					continue
				}
				line = append(line, fmt.Sprintf("%.2f", v))
			}
			rows = append(rows, line)
		}
		blocks = append(blocks, Table{Caption: strings.ToUpper(c) + " of ARMA(p,q) on " + series.Name, Rows: rows})
		best = append(best, fmt.Sprintf("%s selects ARMA(%d,%d) with %.3f", strings.ToUpper(c), g.Best.P, g.Best.Q, g.BestValue))
	}
	return append(blocks, best), nil
}

func gridSearchCell(ctx context.Context, s *Session, args Args) ([]Block, error) {
	g := s.Selection.Grid
	grid, err := selection.ParseGrid(
		args.String("p", g.P), args.String("d", g.D), args.String("q", g.Q),
		args.String("sp", g.SP), args.String("sd", g.SD), args.String("sq", g.SQ),
		args.String("s", g.S))
	if err != nil {
		return nil, err
	}
	workers, err := args.Int("workers", s.Selection.Workers)
	if err != nil {
		return nil, err
	}
	top, err := args.Int("top", 10)
	if err != nil {
		return nil, err
	}
	if top < 0 {
		return nil, errors.Wrapf(ErrInvalidArg, "top=%d must be non-negative", top)
	}
	series, err := s.series(args.String("column", ""), 0)
	if err != nil {
		return nil, err
	}

	res, err := selection.Brute(ctx, series, grid, selection.BruteOptions{
		Criterion: args.String("criterion", s.Selection.Criterion),
		Workers:   workers,
		Logger:    s.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Recorder.RecordGrid(ctx, res.Criterion, res.GridEvaluations()); err != nil {
		s.Logger.Warnw("Failed to record grid search", "error", err)
	}

	ranked := slices.Clone(res.Evaluations)
	slices.SortStableFunc(ranked, func(a, b selection.Evaluation) int {
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		default:
			return 0
		}
	})
	rows := [][]string{{"rank", "order", "seasonal order", strings.ToUpper(res.Criterion)}}
	for i, e := range ranked[:min(top, len(ranked))] {
		score := fmt.Sprintf("%.3f", e.Score)
		if e.Failed() {
			score = "penalty"
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), e.Order.String(), e.Seasonal.String(), score})
	}

	return []Block{
		Paragraph(fmt.Sprintf("%d combinations evaluated, %d could not be fitted and scored %.0e.",
			len(res.Evaluations), res.Failures(), selection.FailurePenalty)),
		Table{Caption: "Best models", Rows: rows},
		Notice{Text: fmt.Sprintf("best: SARIMAX%s with %s %.3f", res.Best.Point, res.Criterion, res.Best.Score), Success: !res.Best.Failed()},
	}, nil
}

func autoARIMACell(ctx context.Context, s *Session, args Args) ([]Block, error) {
	period, err := args.Int("period", 4)
	if err != nil {
		return nil, err
	}
	series, err := s.series(args.String("column", ""), 0)
	if err != nil {
		return nil, err
	}

	config := selection.DefaultAutoConfig()
	config.MaxP, config.MaxQ = 3, 3
	config.MaxSP, config.MaxSQ = 1, 1
	config.Seasonal = period > 1
	config.Period = period
	config.Criterion = args.String("criterion", s.Selection.Criterion)
	config.Logger = s.Logger

	res, err := selection.AutoARIMA(ctx, series, config)
	if err != nil {
		return nil, err
	}
	summary := res.Model.Summary()
	return []Block{
		Paragraph(fmt.Sprintf("%d candidate models fitted.", res.ModelsEvaluated)),
		Table{Caption: "Coefficients", Rows: summary.Rows()},
		Notice{Text: fmt.Sprintf("selected %s with %s %.3f", summary.Title(), config.Criterion, res.Criterion), Success: true},
	}, nil
}
