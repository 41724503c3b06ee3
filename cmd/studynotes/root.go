package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "studynotes",
		Short:        "Federated search and search history for the learning-notes platform",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}
