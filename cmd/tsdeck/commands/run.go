package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sartorproj/tsdeck/deck"
	"github.com/sartorproj/tsdeck/internal/config"
	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/internal/logger"
	"github.com/sartorproj/tsdeck/internal/recorder"
)

func openRecorder(ctx context.Context, cfg *config.Config, command string) (recorder.Recorder, error) {
	if cfg.Recorder.Path == "" {
		return recorder.NewNoopRecorder(), nil
	}
	rec, err := recorder.NewSQLiteRecorder(ctx, cfg.Recorder.Path, command, logger.Named("recorder"))
	if err != nil {
		return nil, errors.WithHint(err, "check --record or recorder.path")
	}
	return rec, nil
}

// runCell loads the configured data, runs one deck cell and renders its
// output. argFlags maps flag names to cell arguments; only flags set on the
// command line are passed.
func runCell(cmd *cobra.Command, cfg *config.Config, cell string, argFlags map[string]string) error {
	ctx := cmd.Context()
	run, ok := deck.Lookup(cell)
	if !ok {
		return errors.Wrapf(deck.ErrUnknownCell, "%q", cell)
	}

	rec, err := openRecorder(ctx, cfg, cmd.CommandPath())
	if err != nil {
		return err
	}
	defer rec.Close()

	session := deck.NewSession(cfg, rec, logger.Named(cell))
	if err := session.LoadData(cfg.Data.Path, cfg.Data.Column); err != nil {
		return err
	}

	args := deck.Args{}
	for flag, arg := range argFlags {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			args[arg] = f.Value.String()
		}
	}

	blocks, err := run(ctx, session, args)
	if err != nil {
		return err
	}
	return deck.NewTerminalRenderer(cmd.OutOrStdout()).Blocks(blocks)
}
