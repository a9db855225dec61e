// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeside/internal/graph"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <snapshot> <paper-id>",
	Short: "Extract the neighborhood of a paper into a crawl snapshot",
	Long: `Crawl walks the papers cited by the root up to --depth hops and,
with --reverse, the papers citing it up to that many hops back. Every node of
the result records its signed depth from the root.`,
	Args: cobra.ExactArgs(2),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().IntP("depth", "d", -1, "forward hops (default graph.crawl_depth)")
	crawlCmd.Flags().IntP("reverse", "r", 0, "backward hops (default graph.reverse_depth, 0 = none)")
	crawlCmd.Flags().StringP("out", "o", "", "output snapshot (default crawl-<paper-id>)")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(snapshotPath(args[0]))
	if err != nil {
		return err
	}
	root := args[1]

	depth, _ := cmd.Flags().GetInt("depth")
	if depth < 0 {
		depth = cfg.Graph.CrawlDepth
	}
	reverse := cfg.Graph.ReverseDepth
	if cmd.Flags().Changed("reverse") {
		reverse, _ = cmd.Flags().GetInt("reverse")
	}

	var opts []graph.CrawlOption
	if reverse != 0 {
		opts = append(opts, graph.WithReverseDepth(reverse))
	}
	snap, err := g.Crawl(root, depth, opts...)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = fmt.Sprintf("crawl-%s", root)
	}
	return storeGraph(snap, snapshotPath(out))
}
