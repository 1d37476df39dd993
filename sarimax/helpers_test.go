package sarimax

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

// simulate draws n observations of mu + u_t with
// u_t = sum ar_i u_{t-i} + e_t + sum ma_j e_{t-j}, where ar and ma are
// indexed by lag starting at 1. A burn-in of 100 draws is discarded.
func simulate(n int, mu float64, ar, ma map[int]float64, seed uint64) *timeseries.Series {
	const burn = 100
	e := gaussian(n+burn, seed)
	u := make([]float64, n+burn)
	for t := range u {
		v := e[t]
		for lag, c := range ar {
			if t-lag >= 0 {
				v += c * u[t-lag]
			}
		}
		for lag, c := range ma {
			if t-lag >= 0 {
				v += c * e[t-lag]
			}
		}
		u[t] = v
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = mu + u[i+burn]
	}
	s := timeseries.New(values)
	s.Name = "sim"
	return s
}

func coefficient(t interface{ Fatalf(string, ...any) }, coef []Coefficient, name string) Coefficient {
	for _, c := range coef {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("coefficient %q not found", name)
	return Coefficient{}
}
