// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeside/internal/corpus"
	"github.com/pdiddy/citeside/internal/entail"
	"github.com/pdiddy/citeside/internal/linker"
	"github.com/pdiddy/citeside/internal/llm"
	"github.com/pdiddy/citeside/internal/render"
	"github.com/pdiddy/citeside/internal/snippet"
	"github.com/pdiddy/citeside/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <paper-id> <argument...>",
	Short: "Trace an argument through the papers a paper cites",
	Long: `Validate searches the full text of the paper for passages stating the
argument, attributes each passage to a cited paper by author surname, judges
with a language model whether the passage supports the argument and follows
the attributed citations breadth first.

The searched tree is written as a snapshot whose edge weights are the mean
critical index of the passages behind each citation.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringSlice("corpus", nil, "corpus files (default corpus.paths)")
	validateCmd.Flags().StringP("out", "o", "", "output snapshot for the searched tree (default validate-<paper-id>)")
	validateCmd.Flags().Bool("tree", false, "also print the searched tree")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	paperID := args[0]
	argument := strings.Join(args[1:], " ")

	paths, _ := cmd.Flags().GetStringSlice("corpus")
	if len(paths) == 0 {
		paths = cfg.Corpus.Paths
	}
	if len(paths) == 0 {
		return fmt.Errorf("provide --corpus files or set corpus.paths")
	}
	if cfg.Entailment.APIKey == "" && cfg.Entailment.BaseURL == "" {
		return fmt.Errorf("no API key: set entailment.api_key, CITESIDE_ENTAILMENT_API_KEY or .secrets/openai-api-key")
	}

	c, err := loadCorpus(cmd.Context(), paths)
	if err != nil {
		return err
	}
	full, summary, err := corpus.BuildGraph(c, io.Discard)
	if err != nil {
		return err
	}
	for _, issue := range summary.Rejected {
		logger.Warn("citation rejected", "issue", issue.String())
	}

	client := llm.NewClient(cfg.Entailment, logger)
	runner := validate.New(full, c,
		snippet.NewEmbeddingRetriever(client, cfg.Entailment, logger),
		linker.New(),
		entail.NewOpenAIScorer(client, cfg.Entailment, logger),
		validate.WithConcurrency(cfg.Entailment.Concurrency),
		validate.WithLogger(logger),
	)

	res, err := runner.Run(cmd.Context(), argument, paperID)
	if err != nil {
		return err
	}

	fmt.Printf("Argument: %s\n", argument)
	render.Findings(os.Stdout, res.Findings)
	if showTree, _ := cmd.Flags().GetBool("tree"); showTree {
		render.Tree(os.Stdout, res.Tree)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = fmt.Sprintf("validate-%s", paperID)
	}
	return storeGraph(res.Tree, snapshotPath(out))
}
