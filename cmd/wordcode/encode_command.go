package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const maxInputLineBytes = 4 * 1024 * 1024

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [text...]",
		Short: "Encode text using the snapshot's code mapping",
		Long: `Encode replaces each vocabulary word in the input with its code. Words
outside the vocabulary are dropped. With no arguments, lines are read from
standard input and encoded one per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cipher, err := ctx.openCipher(cmd.Context())
			if err != nil {
				return err
			}
			return runTransform(cmd, args, cipher.Encode)
		},
	}
}

// runTransform applies transform to the joined arguments, or to each stdin
// line when no arguments are given, writing one output line per input.
func runTransform(cmd *cobra.Command, args []string, transform func(string) (string, error)) error {
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		result, err := transform(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result)
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLineBytes)
	for scanner.Scan() {
		result, err := transform(scanner.Text())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
