package deck

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sartorproj/tsdeck/timeseries"
)

// Cell computes the output of a slide.
type Cell func(ctx context.Context, s *Session, args Args) ([]Block, error)

var registry = map[string]Cell{
	"load-data":    loadDataCell,
	"plot-series":  plotSeriesCell,
	"correlogram":  correlogramCell,
	"stationarity": stationarityCell,
	"difference":   differenceCell,
	"decompose":    decomposeCell,
	"fit":          fitCell,
	"backtest":     backtestCell,
	"order-select": orderSelectCell,
	"grid-search":  gridSearchCell,
	"auto-arima":   autoARIMACell,
	"references":   referencesCell,
}

// Lookup returns the cell registered under name.
func Lookup(name string) (Cell, bool) {
	c, ok := registry[name]
	return c, ok
}

// Cells lists the registered cell names in alphabetical order.
func Cells() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func f4(v float64) string { return fmt.Sprintf("%.4f", v) }

func dateLabel(s *Session, t time.Time) string {
	if s.Frame != nil {
		return timeseries.QuarterLabel(t)
	}
	return t.Format(time.DateOnly)
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return "none"
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}

var references = Bullets{
	"Hyndman, R.J. and Athanasopoulos, G. Forecasting: Principles and Practice, 3rd ed. https://otexts.com/fpp3/",
	"Box, G.E.P., Jenkins, G.M., Reinsel, G.C. and Ljung, G.M. Time Series Analysis: Forecasting and Control, 5th ed. Wiley, 2015.",
	"Dickey, D.A. and Fuller, W.A. Distribution of the estimators for autoregressive time series with a unit root. JASA 74, 1979.",
	"Kwiatkowski, D., Phillips, P.C.B., Schmidt, P. and Shin, Y. Testing the null hypothesis of stationarity against the alternative of a unit root. J. Econometrics 54, 1992.",
	"MacKinnon, J.G. Approximate asymptotic distribution functions for unit-root and cointegration tests. JBES 12, 1994.",
	"Hobijn, B., Franses, P.H. and Ooms, M. Generalizations of the KPSS-test for stationarity. Statistica Neerlandica 58, 2004.",
	"Hyndman, R.J. and Khandakar, Y. Automatic time series forecasting: the forecast package for R. JSS 27, 2008.",
}

func referencesCell(context.Context, *Session, Args) ([]Block, error) {
	return []Block{references}, nil
}
