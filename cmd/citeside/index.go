// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeside/internal/critical"
)

var indexCmd = &cobra.Command{
	Use:   "index <snapshot>",
	Short: "Compute critical indices and combined edge weights",
	Long: `Index sets each node's critical index to the mean of its outgoing edge
weights and replaces every edge weight with the combination of the target's
critical index and the edge's own score. The prior score is kept as the
base weight. A graph with unscored edges is left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringP("mode", "m", "", "combine mode: multiplication or min (default graph.combine_mode)")
	indexCmd.Flags().StringP("out", "o", "", "output snapshot (default: overwrite input)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	in := snapshotPath(args[0])
	g, err := loadGraph(in)
	if err != nil {
		return err
	}

	modeName, _ := cmd.Flags().GetString("mode")
	if modeName == "" {
		modeName = cfg.Graph.CombineMode
	}
	mode, err := critical.ParseMode(modeName)
	if err != nil {
		return err
	}

	res, err := critical.BuildIndex(g, mode)
	if err != nil {
		return err
	}
	switch res.Status {
	case critical.StatusUnscored:
		for _, e := range res.Unscored {
			fmt.Printf("  unscored: %s -> %s\n", e.Source, e.Target)
		}
		return fmt.Errorf("%d edge(s) have no score; graph not indexed", len(res.Unscored))
	case critical.StatusAlreadyIndexed:
		fmt.Println("Graph is already indexed.")
		return nil
	}
	fmt.Printf("Indexed %d nodes and %d edges (%s).\n", res.Nodes, res.Edges, mode)

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return storeGraph(g, in)
	}
	return storeGraph(g, snapshotPath(out))
}
