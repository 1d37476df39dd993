// Command tsdeck presents a time series forecasting deck in the terminal and
// exposes each of its analyses as a subcommand.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"

	"github.com/sartorproj/tsdeck/cmd/tsdeck/commands"
	"github.com/sartorproj/tsdeck/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, pterm.Error.Sprint(err.Error()))
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, pterm.Gray("hint: "+hint))
		}
		os.Exit(1)
	}
}
