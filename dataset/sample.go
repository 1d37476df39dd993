package dataset

import (
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// SampleColumns lists the fields of the bundled quarterly table.
var SampleColumns = []string{"year", "quarter", "realgdp", "cpi", "infl", "unemp", "tbilrate", "realint"}

const (
	sampleStartYear = 1959
	sampleRows      = 203 // 1959Q1 .. 2009Q3
	sampleSeed      = 1959
)

var (
	sampleOnce  sync.Once
	sampleFrame *Frame
)

// Sample returns the bundled quarterly macroeconomic table. The values are
// simulated, not the published US series: levels, the 1970s inflation regime
// and the column identities follow the real data. It is generated once from
// a fixed seed and shared; callers get copies of its columns.
//
// infl is the annualised quarterly CPI inflation 400*log(cpi_t/cpi_{t-1})
// (0 in the first row) and realint = tbilrate - infl.
func Sample() *Frame {
	sampleOnce.Do(func() {
		sampleFrame = generateSample()
	})
	return sampleFrame
}

func generateSample() *Frame {
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(sampleSeed, sampleSeed^0x9e3779b97f4a7c15)}

	cols := make(map[string][]float64, len(SampleColumns))
	for _, c := range SampleColumns {
		cols[c] = make([]float64, sampleRows)
	}

	logGDP := math.Log(2710.349)
	cpi := 28.98
	infl := 0.0
	unemp := 5.8
	tbill := 2.82

	for i := 0; i < sampleRows; i++ {
		year := sampleStartYear + i/4
		quarter := i%4 + 1

		if i > 0 {
			// Inflation mean-reverts to a level that shifts up through the 1970s.
			target := 2.5
			if year >= 1973 && year <= 1981 {
				target = 7.5
			}
			infl = target + 0.8*(infl-target) + 1.4*noise.Rand()
			cpi *= math.Exp(infl / 400)

			growth := 0.0078 + 0.008*noise.Rand()
			if year == 2008 && quarter >= 3 || year == 2009 && quarter <= 2 {
				growth -= 0.015
			}
			logGDP += growth

			unemp = 5.8 + 0.93*(unemp-5.8) - 20*(growth-0.0078) + 0.15*noise.Rand()
			unemp = math.Max(unemp, 2.5)

			tbill = 0.85*tbill + 0.15*(infl+1.0) + 0.45*noise.Rand()
			tbill = math.Max(tbill, 0.05)
		}

		cpiRounded := round(cpi, 3)
		inflRounded := 0.0
		if i > 0 {
			inflRounded = round(400*math.Log(cpiRounded/cols["cpi"][i-1]), 2)
		}
		tbillRounded := round(tbill, 2)

		cols["year"][i] = float64(year)
		cols["quarter"][i] = float64(quarter)
		cols["realgdp"][i] = round(math.Exp(logGDP), 3)
		cols["cpi"][i] = cpiRounded
		cols["infl"][i] = inflRounded
		cols["unemp"][i] = round(unemp, 1)
		cols["tbilrate"][i] = tbillRounded
		cols["realint"][i] = round(tbillRounded-inflRounded, 2)
	}

	f, err := NewFrame(SampleColumns, cols)
	if err != nil {
		panic("dataset: invalid sample frame: " + err.Error())
	}
	return f
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
