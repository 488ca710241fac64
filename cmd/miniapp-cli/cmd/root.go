package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "miniapp-cli",
		Short: "Mini-app session verification tool",
		Long: `miniapp-cli drives the mini-app verification flow from a terminal.

Available commands:
  verify    Send init data to a verification endpoint and print every region update
  render    Print the profile projection for a user JSON file
  version   Print the version number

Use "miniapp-cli [command] --help" for more information about a specific command.`,
		SilenceUsage: true,
	}

	root.AddCommand(newVerifyCmd(), newRenderCmd(), newVersionCmd())
	return root
}

// Execute executes the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
