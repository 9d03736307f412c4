package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ytcapt",
		Short:         "Download, cache, and refine auto-generated video captions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newCacheCommand())

	return rootCmd
}
