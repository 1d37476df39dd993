package sarimax

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/sartorproj/tsdeck/stats"
	"github.com/sartorproj/tsdeck/timeseries"
)

// ljungBoxLags is the portmanteau horizon reported in the summary.
const ljungBoxLags = 10

// Summary describes a fitted model.
type Summary struct {
	Series        string
	Order         Order
	SeasonalOrder SeasonalOrder
	Trend         string
	NObs          int
	Coefficients  []Coefficient
	LogLik        float64
	AIC           float64
	AICc          float64
	BIC           float64
	HQIC          float64
	Converged     bool
	LjungBox      *stats.LjungBoxResult
	JarqueBera    *stats.JarqueBeraResult
}

// Summary returns a summary of the fitted model, or nil before Fit.
func (m *Model) Summary() *Summary {
	coef, err := m.Params()
	if err != nil {
		return nil
	}
	fitdf := m.order.P + m.order.Q + m.seasonal.P + m.seasonal.Q
	return &Summary{
		Series:        m.data.Name,
		Order:         m.order,
		SeasonalOrder: m.seasonal,
		Trend:         m.trend,
		NObs:          len(m.residuals),
		Coefficients:  coef,
		LogLik:        m.logLik,
		AIC:           m.ic.AIC,
		AICc:          m.ic.AICc,
		BIC:           m.ic.BIC,
		HQIC:          m.ic.HQIC,
		Converged:     m.converged,
		LjungBox:      stats.LjungBox(timeseries.New(m.residuals), ljungBoxLags, fitdf),
		JarqueBera:    stats.JarqueBera(m.residuals),
	}
}

// Title is the model label, e.g. "SARIMAX(1,1,1)x(1,0,0,4)".
func (s *Summary) Title() string {
	if s.SeasonalOrder.IsSeasonal() {
		return "SARIMAX" + s.Order.String() + "x" + s.SeasonalOrder.String()
	}
	return "SARIMAX" + s.Order.String()
}

// Rows returns the coefficient table with a header row.
func (s *Summary) Rows() [][]string {
	rows := [][]string{{"", "coef", "std err", "z", "P>|z|", "lower", "upper"}}
	for _, c := range s.Coefficients {
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%.4f", c.Value),
			fmt.Sprintf("%.4f", c.StdErr),
			fmt.Sprintf("%.3f", c.Z),
			fmt.Sprintf("%.3f", c.P),
			fmt.Sprintf("%.4f", c.Lower),
			fmt.Sprintf("%.4f", c.Upper),
		})
	}
	return rows
}

// String renders the summary as plain text.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on %q, %d observations\n", s.Title(), s.Series, s.NObs)
	fmt.Fprintf(&b, "Log likelihood %.3f  AIC %.3f  BIC %.3f  HQIC %.3f\n", s.LogLik, s.AIC, s.BIC, s.HQIC)

	table, err := pterm.DefaultTable.WithHasHeader().WithData(s.Rows()).Srender()
	if err != nil {
		table = fmt.Sprint(s.Rows())
	}
	b.WriteString(table)
	b.WriteString("\n")

	if s.LjungBox != nil {
		fmt.Fprintf(&b, "Ljung-Box Q(%d) %.3f  Prob(Q) %.3f\n", s.LjungBox.Lags, s.LjungBox.Statistic, s.LjungBox.PValue)
	}
	if s.JarqueBera != nil {
		fmt.Fprintf(&b, "Jarque-Bera %.3f  Prob(JB) %.3f  Skew %.3f  Kurtosis %.3f\n",
			s.JarqueBera.Statistic, s.JarqueBera.PValue, s.JarqueBera.Skew, s.JarqueBera.Kurtosis)
	}
	if !s.Converged {
		b.WriteString("Warning: the optimiser did not converge\n")
	}
	return b.String()
}
