// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeside/internal/corpus"
)

var buildCmd = &cobra.Command{
	Use:   "build [corpus files...]",
	Short: "Build the full citation graph from a paper corpus",
	Long: `Build reads paper records (JSON array, JSON Lines or YAML list) and
creates a node for every paper and an unscored edge for every citation
between two corpus papers. Citations to papers outside the corpus are
counted and dropped. Edges that would close a cycle are rejected and listed.

Without arguments the files in corpus.paths are used.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "full", "output snapshot (bare names go to snapshot.dir)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = cfg.Corpus.Paths
	}
	if len(paths) == 0 {
		return fmt.Errorf("provide corpus files or set corpus.paths")
	}

	c, err := loadCorpus(cmd.Context(), paths)
	if err != nil {
		return err
	}

	fmt.Printf("Building graph from %d papers...\n", c.Len())
	g, summary, err := corpus.BuildGraph(c, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("Done: %d papers, %d edges, %d external references, %d duplicates, %d rejected\n",
		summary.Papers, summary.Edges, summary.External, summary.Duplicates, len(summary.Rejected))

	out, _ := cmd.Flags().GetString("out")
	return storeGraph(g, snapshotPath(out))
}

// loadCorpus reads the corpus files and logs duplicate paper ids.
func loadCorpus(ctx context.Context, paths []string) (*corpus.Corpus, error) {
	c, err := corpus.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	if n := c.Duplicates(); n > 0 {
		logger.Warn("duplicate paper ids ignored", "count", n)
	}
	return c, nil
}
