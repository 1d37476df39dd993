package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sartorproj/tsdeck/deck"
	"github.com/sartorproj/tsdeck/internal/config"
	"github.com/sartorproj/tsdeck/internal/logger"
)

func newPresentCmd(cfg *config.Config) *cobra.Command {
	var from int

	cmd := &cobra.Command{
		Use:   "present",
		Short: "Play the deck",
		Long: `Play the deck slide by slide, computing each slide's cell on the data.

A cell that fails is reported on its slide and the presentation goes on;
the command then exits with an error listing the failed slides.

Examples:
  tsdeck present                        # built-in deck, non-stop
  tsdeck present --interactive          # press Enter for the next slide
  tsdeck present --deck my.yaml --from 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deck.Load(cfg.Deck.Path)
			if err != nil {
				return err
			}
			rec, err := openRecorder(cmd.Context(), cfg, cmd.CommandPath())
			if err != nil {
				return err
			}
			defer rec.Close()

			p := &deck.Presenter{
				Deck:        d,
				Session:     deck.NewSession(cfg, rec, logger.Named("deck")),
				Renderer:    deck.NewTerminalRenderer(cmd.OutOrStdout()),
				Interactive: cfg.Deck.Interactive,
				In:          os.Stdin,
				From:        from,
				Logger:      logger.Named("presenter"),
			}
			return p.Run(cmd.Context())
		},
	}

	cmd.Flags().String("deck", "", "YAML deck to play (default: built-in deck)")
	cmd.Flags().BoolP("interactive", "i", false, "Wait for Enter between slides")
	cmd.Flags().IntVar(&from, "from", 1, "Slide to start at")
	return cmd
}
