// Package cli wires configuration, infrastructure and domain services into
// the depositwatch command line application.
package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the depositwatch CLI application.
//
// It registers all available commands:
//
//   - `serve`: Starts the deposit watch and points ledger HTTP server.
//   - `credit`: Starts the worker crediting ledger points for deposits.
func Run(ctx context.Context) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "depositwatch",
		Description:           "Command-line interface for running the deposit watch services.",
		Usage:                 "depositwatch [command] [flags]",
		Commands: []*cli.Command{
			serveCommand(),
			creditCommand(),
		},
	}

	return app.Run(ctx, os.Args)
}
