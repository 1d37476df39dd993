package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sartorproj/tsdeck/internal/config"
	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/internal/logger"
)

// flagKeys maps command-line flags to configuration keys. A flag that is
// set overrides the environment and the config file.
var flagKeys = map[string]string{
	"data":        "data.path",
	"column":      "data.column",
	"out":         "output.dir",
	"format":      "output.format",
	"record":      "recorder.path",
	"json-logs":   "log.json",
	"verbose":     "log.verbosity",
	"alpha":       "analysis.alpha",
	"lags":        "analysis.lags",
	"steps":       "analysis.steps",
	"max-ar":      "selection.max_ar",
	"max-ma":      "selection.max_ma",
	"criterion":   "selection.criterion",
	"workers":     "selection.workers",
	"p":           "selection.grid.p",
	"d":           "selection.grid.d",
	"q":           "selection.grid.q",
	"sp":          "selection.grid.sp",
	"sd":          "selection.grid.sd",
	"sq":          "selection.grid.sq",
	"s":           "selection.grid.s",
	"deck":        "deck.path",
	"interactive": "deck.interactive",
}

// NewRootCmd builds the tsdeck command tree.
func NewRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:   "tsdeck",
		Short: "Time series forecasting, one slide at a time",
		Long: `tsdeck - a terminal teaching deck on time series forecasting.

It walks through stationarity (ADF, KPSS), autocorrelation, SARIMAX
estimation, order selection by information criteria and a brute-force
search over seasonal orders, computing every result live on the data.

Without --data a simulated quarterly macro sample shaped like the US series
is used.

Examples:
  tsdeck present                          # play the built-in deck
  tsdeck present -i --from 6              # step through from slide 6
  tsdeck stationarity --column realgdp --diff 1
  tsdeck fit --order 2,1,0 --steps 8
  tsdeck grid --p 0:2 --q 0:2 --sp 0:1 --s 4
  tsdeck --record runs.db grid && tsdeck --record runs.db runs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			loaded, err := setup(cmd)
			if err != nil {
				return err
			}
			cfg = *loaded
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default ./tsdeck.toml, then ~/.config/tsdeck/tsdeck.toml)")
	flags.String("data", "", "CSV file to analyse (default: simulated macro sample)")
	flags.String("column", "infl", "Column to analyse")
	flags.String("out", "figures", "Directory for figures (empty disables figures)")
	flags.String("format", "png", "Figure format: png, svg or jpg")
	flags.String("record", "", "SQLite file to record results in")
	flags.Bool("json-logs", false, "Log as JSON")
	flags.CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	root.AddCommand(
		newPresentCmd(&cfg),
		newSlidesCmd(&cfg),
		newStationarityCmd(&cfg),
		newDifferenceCmd(&cfg),
		newDecomposeCmd(&cfg),
		newCorrelogramCmd(&cfg),
		newFitCmd(&cfg),
		newBacktestCmd(&cfg),
		newSelectCmd(&cfg),
		newGridCmd(&cfg),
		newAutoCmd(&cfg),
		newRunsCmd(&cfg),
		newVersionCmd(),
	)
	return root
}

// setup reads the configuration with cmd's flags bound on top and
// initialises the global logger.
func setup(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	v, err := config.NewViper(path)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Verbosity); err != nil {
		return nil, errors.Wrap(err, "initialize logger")
	}
	logger.Logger.Debugw("Configuration loaded",
		"file", v.ConfigFileUsed(),
		"data", cfg.Data.Path,
		"column", cfg.Data.Column,
		"output", cfg.Output.Dir)
	return cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag --%s", name)
		}
	}
	return nil
}
