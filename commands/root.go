// Package commands is the rta-backend CLI: the HTTP server plus a few operator tools.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "rta-backend",
		Short:        "restaurant ordering backend",
		SilenceUsage: true,
		// no subcommand runs the server
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	rootCmd.AddCommand(
		newServeCommand(),
		newOrdersCommand(),
		newQRCodeCommand(),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
