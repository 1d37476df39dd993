// Package commands implements the tsdeck command line. Every analysis
// subcommand runs the deck cell of the same name on the configured data, so
// the CLI and the slides always show the same numbers.
package commands
