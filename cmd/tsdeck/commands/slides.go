package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sartorproj/tsdeck/deck"
	"github.com/sartorproj/tsdeck/internal/config"
)

func newSlidesCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slides",
		Short: "List the slides of the deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deck.Load(cfg.Deck.Path)
			if err != nil {
				return err
			}
			rows := [][]string{{"#", "title", "cell"}}
			for i, s := range d.Slides {
				rows = append(rows, []string{fmt.Sprint(i + 1), s.Title, s.Cell})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", d.Title, table)
			return err
		},
	}
	cmd.Flags().String("deck", "", "YAML deck to list (default: built-in deck)")
	return cmd
}
