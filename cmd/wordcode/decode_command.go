package main

import (
	"github.com/spf13/cobra"
)

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [codes...]",
		Short: "Decode coded text back into vocabulary words",
		Long: `Decode replaces each code in the input with its vocabulary word. A code
that is not part of the mapping fails the command. With no arguments, lines
are read from standard input and decoded one per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cipher, err := ctx.openCipher(cmd.Context())
			if err != nil {
				return err
			}
			return runTransform(cmd, args, cipher.Decode)
		},
	}
}
