// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeside/internal/render"
	"github.com/pdiddy/citeside/internal/snapshot"
	"github.com/pdiddy/citeside/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <snapshot>",
	Short: "Print the nodes and edges of a snapshot",
	Long: `Show prints a snapshot with colored depths (crawl snapshots) and edge
weights. With --format it prints the snapshot document instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var uncitedCmd = &cobra.Command{
	Use:   "uncited <snapshot>",
	Short: "List papers that no other paper in the snapshot cites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(snapshotPath(args[0]))
		if err != nil {
			return err
		}
		for _, id := range g.Uncited() {
			fmt.Println(id)
		}
		return nil
	},
}

var weightCmd = &cobra.Command{
	Use:   "weight <snapshot> <source> <target> [score]",
	Short: "Print or set the score of a citation edge",
	Long: `Weight prints the score of the edge source -> target, or sets it when
a score in [-1, 1] is given (-1 marks the edge unscored).`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runWeight,
}

func init() {
	showCmd.Flags().StringP("format", "f", "", "print the snapshot document as json or yaml")
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(uncitedCmd)
	rootCmd.AddCommand(weightCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(snapshotPath(args[0]))
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	switch types.SnapshotFormat(format) {
	case "":
		render.Tree(os.Stdout, g)
		return nil
	case types.FormatJSON, types.FormatYAML:
		return snapshot.Encode(os.Stdout, g, types.SnapshotFormat(format))
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

func runWeight(cmd *cobra.Command, args []string) error {
	path := snapshotPath(args[0])
	g, err := loadGraph(path)
	if err != nil {
		return err
	}
	source, target := args[1], args[2]

	if len(args) == 3 {
		w, err := g.Weight(source, target)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s  weight=%.3f\n", source, target, w)
		return nil
	}

	w, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("parsing score %q: %w", args[3], err)
	}
	if err := g.SetWeight(source, target, w); err != nil {
		return err
	}
	return storeGraph(g, path)
}
