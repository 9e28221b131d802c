package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	app := &appContext{}

	rootCmd := &cobra.Command{
		Use:           "foodlens",
		Short:         "Validate and identify dish photos with a multimodal model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand(app))
	rootCmd.AddCommand(newBotCommand(app))
	rootCmd.AddCommand(newSubmitCommand())
	rootCmd.AddCommand(newJournalCommand(app))
	return rootCmd
}
