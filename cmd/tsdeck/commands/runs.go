package commands

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sartorproj/tsdeck/internal/config"
	"github.com/sartorproj/tsdeck/internal/errors"
	"github.com/sartorproj/tsdeck/internal/logger"
	"github.com/sartorproj/tsdeck/internal/recorder"
)

func newRunsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long: `List the runs stored in the --record database, newest first, with the
best grid-search model of each run that searched a grid.`,
		Example: "  tsdeck --record runs.db runs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Recorder.Path == "" {
				return errors.WithHint(errors.New("no recorder database"), "pass --record or set recorder.path")
			}
			ctx := cmd.Context()
			rec, err := recorder.NewSQLiteRecorder(ctx, cfg.Recorder.Path, cmd.CommandPath(), logger.Named("recorder"))
			if err != nil {
				return err
			}
			defer rec.Close()

			runs, err := rec.Runs(ctx)
			if err != nil {
				return err
			}
			rows := [][]string{{"run", "started", "command", "best grid model"}}
			for _, run := range runs {
				if run.ID == rec.RunID() {
					continue
				}
				best := ""
				e, err := rec.BestGridEvaluation(ctx, run.ID)
				switch {
				case err == nil:
					best = fmt.Sprintf("%sx%s %.3f", e.Order, e.Seasonal, e.Score)
				case !errors.Is(err, sql.ErrNoRows):
					return err
				}
				rows = append(rows, []string{
					run.ID.String()[:8],
					run.StartedAt.Local().Format(time.DateTime),
					run.Command,
					best,
				})
			}
			if len(rows) == 1 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return err
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}
}
