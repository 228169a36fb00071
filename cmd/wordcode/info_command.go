package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wordcode/internal/snapshot"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show snapshot health and mapping details",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.snapshotPath()
			if err != nil {
				return err
			}

			health, healthErr := snapshot.CheckHealth(cmd.Context(), path)
			if healthErr != nil && health.Error == "" {
				return healthErr
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Snapshot", colorize) {
				fmt.Fprintln(out, line)
			}

			if !health.SnapshotExists {
				fmt.Fprintln(out, renderStatusLine("Snapshot", statusWarn, fmt.Sprintf("%s not found; build one with `wordcode build`", path), colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Snapshot", statusOK, path, colorize))

			if !health.Readable {
				fmt.Fprintln(out, renderStatusLine("Readable", statusError, health.Error, colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Readable", statusOK, "", colorize))

			if len(health.MissingTables) > 0 {
				fmt.Fprintln(out, renderStatusLine("Tables", statusError, "missing "+strings.Join(health.MissingTables, ", "), colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Tables", statusOK, "", colorize))

			schemaKind := statusOK
			schemaMsg := fmt.Sprintf("version %d", health.SchemaVersion)
			if health.SchemaVersion != snapshot.SchemaVersion {
				schemaKind = statusError
				schemaMsg = fmt.Sprintf("version %d, expected %d; rebuild with `wordcode build`", health.SchemaVersion, snapshot.SchemaVersion)
			}
			fmt.Fprintln(out, renderStatusLine("Schema", schemaKind, schemaMsg, colorize))

			integrityKind := statusOK
			if !health.IntegrityCheck {
				integrityKind = statusError
			}
			fmt.Fprintln(out, renderStatusLine("Integrity", integrityKind, "", colorize))

			if schemaKind != statusOK || integrityKind != statusOK {
				return nil
			}

			state, err := snapshot.Read(cmd.Context(), path)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Mapping", statusError, err.Error(), colorize))
				return nil
			}

			p := message.NewPrinter(language.English)
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Mapping", colorize) {
				fmt.Fprintln(out, line)
			}
			meta := state.Meta
			printMetaLine(out, "ID", meta.ID)
			printMetaLine(out, "Created", meta.CreatedAt.UTC().Format(time.RFC3339))
			printMetaLine(out, "Assignment", fmt.Sprintf("%s (seed %d)", meta.Assignment, meta.Seed))
			if meta.Assignment == "generated" {
				printMetaLine(out, "Code length", fmt.Sprintf("%d", meta.CodeLength))
			}
			printMetaLine(out, "Vocabulary", p.Sprintf("%d words", len(state.Words)))
			printMetaLine(out, "Mapping", p.Sprintf("%d pairs", len(state.WordToCode)))
			printMetaLine(out, "Distinct words", p.Sprintf("%d", len(state.Frequency)))
			if meta.CorpusSource != "" {
				printMetaLine(out, "Corpus", meta.CorpusSource)
				printMetaLine(out, "Corpus size", p.Sprintf("%d tokens on %d lines", meta.CorpusTokens, meta.CorpusLines))
			}
			return nil
		},
	}
}

func printMetaLine(out io.Writer, label, value string) {
	fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, label+":", value)
}
