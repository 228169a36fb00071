package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Show the ranked vocabulary and assigned codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cipher, err := ctx.openCipher(cmd.Context())
			if err != nil {
				return err
			}

			v := cipher.Vocabulary()
			if v.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Vocabulary is empty")
				return nil
			}

			limit := v.Len()
			if top > 0 && top < limit {
				limit = top
			}

			p := message.NewPrinter(language.English)
			rows := make([][]string, 0, limit)
			for i := 0; i < limit; i++ {
				word := v.Words[i]
				code, _ := cipher.CodeFor(word)
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					word,
					p.Sprintf("%d", v.Counts[i]),
					code,
				})
			}

			table := renderTable(
				[]string{"Rank", "Word", "Count", "Code"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table)
			if limit < v.Len() {
				p.Fprintf(out, "Showing %d of %d words\n", limit, v.Len())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 20, "Number of words to show (0 shows all)")
	return cmd
}
