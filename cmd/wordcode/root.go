package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:               "wordcode",
		Short:             "Deterministic word-substitution codes",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: ctx.preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.snapshotFlag, "snapshot", "", "Path to the snapshot database")
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(
		newBuildCommand(ctx),
		newEncodeCommand(ctx),
		newDecodeCommand(ctx),
		newVocabCommand(ctx),
		newInfoCommand(ctx),
		newConfigCommand(ctx),
	)

	return rootCmd
}
