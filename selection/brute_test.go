package selection

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/sarimax"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{"0:2", Range{0, 2}, false},
		{" 1 : 3 ", Range{1, 3}, false},
		{"4", Range{4, 4}, false},
		{"2:1", Range{}, true},
		{"-1:2", Range{}, true},
		{"a:b", Range{}, true},
		{"", Range{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseRange(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRange))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
		})
	}

	assert.Equal(t, []int{1, 2, 3}, Range{1, 3}.Values())
	assert.Equal(t, "1:3", Range{1, 3}.String())
}

func TestGridPoints(t *testing.T) {
	grid, err := ParseGrid("0:1", "0", "0:1", "0", "0", "0:1", "4")
	require.NoError(t, err)

	points := grid.Points()
	assert.Equal(t, 8, grid.Size())
	require.Len(t, points, 8)

	assert.Equal(t, Point{Order: sarimax.Order{}, Seasonal: sarimax.SeasonalOrder{S: 4}}, points[0])
	assert.Equal(t, Point{Order: sarimax.Order{}, Seasonal: sarimax.SeasonalOrder{Q: 1, S: 4}}, points[1])
	assert.Equal(t, Point{Order: sarimax.Order{P: 1, Q: 1}, Seasonal: sarimax.SeasonalOrder{Q: 1, S: 4}}, points[7])
	assert.Equal(t, "(1,0,1)x(0,0,1,4)", points[7].String())

	_, err = ParseGrid("0:1", "0", "x", "0", "0", "0", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid dimension q")
}

func TestObjective(t *testing.T) {
	series := ar1(150, 0.5, 7)
	objective := Objective(context.Background(), series, "aic")

	score, err := objective(Point{Order: sarimax.Order{P: 1}})
	require.NoError(t, err)

	model := sarimax.New(sarimax.Order{P: 1}, sarimax.SeasonalOrder{})
	require.NoError(t, model.Fit(context.Background(), series))
	assert.InDelta(t, model.AIC(), score, 1e-9)

	// A seasonal term without a period cannot be fitted.
	score, err = objective(Point{Seasonal: sarimax.SeasonalOrder{P: 1}})
	require.Error(t, err)
	assert.Equal(t, FailurePenalty, score)

	// Too many parameters for the data.
	short := ar1(12, 0.5, 8)
	score, err = Objective(context.Background(), short, "bic")(Point{Order: sarimax.Order{P: 3, Q: 3}})
	assert.True(t, errors.Is(err, sarimax.ErrInsufficientData))
	assert.Equal(t, FailurePenalty, score)

	score, err = Objective(context.Background(), series, "waic")(Point{})
	assert.True(t, errors.Is(err, ErrUnknownCriterion))
	assert.Equal(t, FailurePenalty, score)
}

func TestBrute(t *testing.T) {
	series := ar1(150, 0.6, 9)
	// sp=1 with s=0 is an invalid model and must be penalised.
	grid, err := ParseGrid("0:2", "0", "0:1", "0:1", "0", "0", "0")
	require.NoError(t, err)

	res, err := Brute(context.Background(), series, grid, BruteOptions{Criterion: "aic", Workers: 4})
	require.NoError(t, err)

	require.Len(t, res.Evaluations, 12)
	assert.Equal(t, 6, res.Failures())
	assert.Equal(t, "aic", res.Criterion)

	minScore := math.Inf(1)
	minIndex := -1
	for i, e := range res.Evaluations {
		assert.Equal(t, grid.Points()[i], e.Point)
		if e.Seasonal.P == 1 {
			assert.True(t, e.Failed())
			assert.Equal(t, FailurePenalty, e.Score)
		} else {
			assert.False(t, e.Failed(), e.Point.String())
			assert.Less(t, e.Score, FailurePenalty)
		}
		if e.Score < minScore {
			minScore, minIndex = e.Score, i
		}
	}
	assert.Equal(t, minIndex, res.BestIndex)
	assert.Equal(t, minScore, res.Best.Score)
	assert.GreaterOrEqual(t, res.Best.Order.P, 1)

	sequential, err := Brute(context.Background(), series, grid, BruteOptions{Criterion: "aic", Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, res.BestIndex, sequential.BestIndex)
	for i := range res.Evaluations {
		assert.Equal(t, res.Evaluations[i].Score, sequential.Evaluations[i].Score)
	}

	records := res.GridEvaluations()
	require.Len(t, records, 12)
	assert.Equal(t, "(0,0,0)", records[0].Order)
	assert.False(t, records[0].Failed)
	assert.True(t, records[1].Failed)
	assert.NotEmpty(t, records[1].Error)
}

func TestBruteAllFailed(t *testing.T) {
	grid := Grid{SP: Range{1, 1}}
	res, err := Brute(context.Background(), ar1(60, 0.3, 10), grid, BruteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failures())
	assert.Equal(t, FailurePenalty, res.Best.Score)
}

func TestBruteErrors(t *testing.T) {
	series := ar1(60, 0.3, 11)

	_, err := Brute(context.Background(), series, Grid{}, BruteOptions{Criterion: "mdl"})
	assert.True(t, errors.Is(err, ErrUnknownCriterion))

	_, err = Brute(context.Background(), series, Grid{P: Range{2, 1}}, BruteOptions{})
	assert.True(t, errors.Is(err, ErrInvalidRange))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Brute(ctx, series, Grid{P: Range{0, 2}}, BruteOptions{})
	assert.True(t, errors.Is(err, context.Canceled))
}
