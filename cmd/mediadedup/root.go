package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags scanFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "mediadedup",
		Short: "Find and remove duplicate media directories",
		Long: "mediadedup groups the subdirectories of each configured library root by title\n" +
			"(an identifier in a .nfo sidecar, or the parsed title and year) and keeps the\n" +
			"highest scoring copy. Without flags duplicates are only reported.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, ctx, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable coloured output")
	rootCmd.Flags().BoolVar(&flags.delete, "delete", false, "Delete lower scoring duplicates")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what --delete would remove without removing anything")

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx, &flags))

	return rootCmd
}
