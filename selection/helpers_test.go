package selection

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/tsdeck/timeseries"
)

func gaussian(n int, seed uint64) []float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed+1)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

func ar1(n int, phi float64, seed uint64) *timeseries.Series {
	e := gaussian(n, seed)
	values := make([]float64, n)
	values[0] = e[0]
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + e[i]
	}
	s := timeseries.New(values)
	s.Name = "ar1"
	return s
}

func trendingWalk(n int, drift float64, seed uint64) *timeseries.Series {
	e := gaussian(n, seed)
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = values[i-1] + drift + e[i]
	}
	return timeseries.New(values)
}
