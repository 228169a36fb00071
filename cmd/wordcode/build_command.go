package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wordcode/internal/codebook"
	"wordcode/internal/config"
	"wordcode/internal/corpus"
	"wordcode/internal/logging"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var corpusPath string
	var maxVocab int
	var seed int64
	var codeLength int
	var assignment string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a code mapping from a corpus and save it as a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()

			source, err := resolveCorpus(corpusPath, cfg)
			if err != nil {
				return err
			}

			opts := codebook.Options{
				Source:     source,
				MaxVocab:   cfg.Vocabulary.MaxSize,
				Seed:       cfg.Codes.Seed,
				CodeLength: cfg.Codes.Length,
				Strategy:   codebook.Assignment(cfg.Codes.Assignment),
			}
			if maxVocab > 0 {
				opts.MaxVocab = maxVocab
			}
			if seed != 0 {
				opts.Seed = seed
			}
			if codeLength > 0 {
				opts.CodeLength = codeLength
			}
			if strings.TrimSpace(assignment) != "" {
				opts.Strategy = codebook.Assignment(strings.ToLower(strings.TrimSpace(assignment)))
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			opts.Logger = logging.NewComponentLogger(logger, "builder")

			cipher, err := codebook.New(cmd.Context(), opts)
			if err != nil {
				return err
			}

			target, err := ctx.snapshotPath()
			if err != nil {
				return err
			}
			if err := cipher.Save(cmd.Context(), target); err != nil {
				return err
			}

			meta := cipher.Meta()
			p := message.NewPrinter(language.English)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Built code mapping from %s\n", source.String())
			p.Fprintf(out, "  Vocabulary:     %d words\n", cipher.Len())
			p.Fprintf(out, "  Distinct words: %d\n", cipher.DistinctWords())
			p.Fprintf(out, "  Corpus size:    %d tokens on %d lines\n", meta.CorpusTokens, meta.CorpusLines)
			fmt.Fprintf(out, "  Assignment:     %s (seed %d)\n", meta.Assignment, meta.Seed)
			fmt.Fprintf(out, "  Mapping id:     %s\n", meta.ID)
			fmt.Fprintf(out, "  Snapshot:       %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Corpus text file to rank (defaults to paths.corpus)")
	cmd.Flags().IntVar(&maxVocab, "max-vocab", 0, "Cap on vocabulary size (defaults to vocabulary.max_size)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Assignment seed (defaults to codes.seed)")
	cmd.Flags().IntVar(&codeLength, "code-length", 0, "Generated code length (defaults to codes.length)")
	cmd.Flags().StringVar(&assignment, "assignment", "", "Assignment strategy: permutation or generated (defaults to codes.assignment)")
	return cmd
}

func resolveCorpus(flagPath string, cfg *config.Config) (corpus.Source, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" && cfg != nil {
		path = cfg.Paths.Corpus
	}
	if path == "" {
		return nil, errors.New("no corpus file given; pass --corpus or set paths.corpus in the config")
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("corpus file does not exist: %s", expanded)
		}
		return nil, fmt.Errorf("inspect corpus: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", expanded)
	}
	return corpus.NewFile(expanded), nil
}
