package commands

import (
	"github.com/spf13/cobra"

	"github.com/sartorproj/tsdeck/internal/config"
)

func newStationarityCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stationarity",
		Short: "Run the ADF and KPSS tests and give a joint verdict",
		Long: `Run the augmented Dickey-Fuller test (null: unit root) and the KPSS test
(null: stationarity) on the column and combine them into one of four
verdicts: stationary, non-stationary, trend-stationary or
difference-stationary.`,
		Example: "  tsdeck stationarity --column realgdp --diff 1 --alpha 0.01",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "stationarity", map[string]string{"diff": "diff", "transform": "transform"})
		},
	}
	cmd.Flags().Float64("alpha", 0.05, "Significance level")
	cmd.Flags().Int("diff", 0, "Difference the series this many times first")
	cmd.Flags().String("transform", "", "Transform before differencing: log or normalize")
	return cmd
}

func newDifferenceCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "difference",
		Short:   "Suggest differencing orders and test the differenced series",
		Example: "  tsdeck difference --order 1 --period 4",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "difference", map[string]string{"order": "order", "period": "period"})
		},
	}
	cmd.Flags().Float64("alpha", 0.05, "Significance level")
	cmd.Flags().Int("order", 1, "Number of first differences")
	cmd.Flags().Int("period", 0, "Seasonal period for a seasonal difference (0 for none)")
	return cmd
}

func newDecomposeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decompose",
		Short:   "Classical seasonal decomposition",
		Example: "  tsdeck decompose --column realgdp --type multiplicative",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "decompose", map[string]string{"period": "period", "type": "type"})
		},
	}
	cmd.Flags().Int("period", 4, "Seasonal period")
	cmd.Flags().String("type", "additive", "additive or multiplicative")
	return cmd
}

func newCorrelogramCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "correlogram",
		Short:   "ACF and PACF with confidence bands",
		Example: "  tsdeck correlogram --lags 24 --diff 1",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "correlogram", map[string]string{"diff": "diff", "transform": "transform"})
		},
	}
	cmd.Flags().Float64("alpha", 0.05, "Significance level of the bands")
	cmd.Flags().Int("lags", 20, "Number of lags")
	cmd.Flags().Int("diff", 0, "Difference the series this many times first")
	cmd.Flags().String("transform", "", "Transform before differencing: log or normalize")
	return cmd
}

func newFitCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a SARIMAX model and forecast",
		Long: `Fit SARIMAX(p,d,q)x(P,D,Q,s) by conditional sum of squares, print the
coefficient table and diagnostics, and forecast with confidence intervals.`,
		Example: `  tsdeck fit --order 1,0,1
  tsdeck fit --column realgdp --order 1,1,0 --seasonal 0,0,1,4 --steps 8
  tsdeck fit --order 1,0,0 --exog unemp --steps 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "fit", map[string]string{
				"order":    "order",
				"seasonal": "seasonal",
				"trend":    "trend",
				"exog":     "exog",
				"steps":    "steps",
				"save":     "save",
			})
		},
	}
	cmd.Flags().String("order", "1,0,1", "Non-seasonal order p,d,q")
	cmd.Flags().String("seasonal", "0,0,0,0", "Seasonal order P,D,Q,s")
	cmd.Flags().String("trend", "", `Deterministic term: "c" or "n" (default: c without differencing)`)
	cmd.Flags().String("exog", "", "Comma-separated regressor columns")
	cmd.Flags().Int("steps", 12, "Forecast horizon (0 for none)")
	cmd.Flags().String("save", "", "Write the forecast to this CSV file")
	cmd.Flags().Float64("alpha", 0.05, "Significance level of the intervals")
	return cmd
}

func newBacktestCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Score a model's forecasts on held-out observations",
		Long: `Refit the model without the last observations, forecast them and report
RMSE, MAE and MAPE next to the naive last-value forecast. The default test
size is a fifth of the data, at least one season, between 3 and 30.`,
		Example: "  tsdeck backtest --order 1,1,0 --seasonal 0,0,1,4 --test 12",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "backtest", map[string]string{
				"order":    "order",
				"seasonal": "seasonal",
				"trend":    "trend",
				"test":     "test",
			})
		},
	}
	cmd.Flags().String("order", "1,0,1", "Non-seasonal order p,d,q")
	cmd.Flags().String("seasonal", "0,0,0,0", "Seasonal order P,D,Q,s")
	cmd.Flags().String("trend", "", `Deterministic term: "c" or "n"`)
	cmd.Flags().Int("test", 0, "Number of held-out observations (default: automatic)")
	return cmd
}

func newSelectCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "select",
		Short:   "Tabulate information criteria over ARMA(p,q) orders",
		Example: "  tsdeck select --max-ar 4 --max-ma 2 --ic aic,bic,hqic",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "order-select", map[string]string{"ic": "ic", "diff": "diff", "transform": "transform"})
		},
	}
	cmd.Flags().Int("max-ar", 4, "Largest AR order")
	cmd.Flags().Int("max-ma", 2, "Largest MA order")
	cmd.Flags().String("ic", "aic,bic", "Criteria: aic, aicc, bic, hqic")
	cmd.Flags().Int("diff", 0, "Difference the series this many times first")
	cmd.Flags().String("transform", "", "Transform before differencing: log or normalize")
	return cmd
}

func newGridCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Brute-force search over (p,d,q)x(P,D,Q,s)",
		Long: `Fit every combination of the seven ranges and rank them by the criterion.
Ranges are inclusive "lo:hi" or a single value. Combinations that cannot be
fitted score 1e10 and never win unless every combination fails.`,
		Example: "  tsdeck grid --p 0:2 --d 0:1 --q 0:2 --sp 0:1 --sq 0:1 --s 4 --criterion bic",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "grid-search", map[string]string{"top": "top"})
		},
	}
	f := cmd.Flags()
	f.String("p", "0:2", "AR order range")
	f.String("d", "0:1", "Differencing range")
	f.String("q", "0:2", "MA order range")
	f.String("sp", "0:1", "Seasonal AR order range")
	f.String("sd", "0:0", "Seasonal differencing range")
	f.String("sq", "0:1", "Seasonal MA order range")
	f.String("s", "4", "Seasonal period range")
	f.String("criterion", "aic", "Criterion to minimise: aic, aicc, bic, hqic")
	f.Int("workers", 0, "Concurrent fits (0: one per CPU)")
	f.Int("top", 10, "Number of ranked models to show")
	return cmd
}

func newAutoCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auto",
		Short:   "Stepwise automatic ARIMA",
		Example: "  tsdeck auto --period 4 --criterion bic",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCell(cmd, cfg, "auto-arima", map[string]string{"period": "period"})
		},
	}
	cmd.Flags().Int("period", 4, "Seasonal period (0 or 1 for non-seasonal)")
	cmd.Flags().String("criterion", "aic", "Criterion to minimise: aic, aicc, bic, hqic")
	return cmd
}
