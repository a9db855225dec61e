// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeside/internal/catalog"
	"github.com/pdiddy/citeside/internal/render"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Keep named snapshots in a local SQLite catalog",
	Long: `Catalog stores snapshots under a name in catalog.db inside
catalog.dir. Saving under an existing name replaces the stored graph.`,
}

var catalogSaveCmd = &cobra.Command{
	Use:   "save <name> <snapshot>",
	Short: "Store a snapshot file in the catalog",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(snapshotPath(args[1]))
		if err != nil {
			return err
		}
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		e, err := store.Save(cmd.Context(), args[0], g)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s (%s): %d nodes, %d edges\n", e.Name, e.ID, e.Nodes, e.Edges)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Catalog is empty.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-20s  %-10s  %6s  %6s  %-7s  %s\n", "Name", "Root", "Nodes", "Edges", "Indexed", "Updated")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
		for _, e := range entries {
			root := e.CrawlRoot
			if root == "" {
				root = "-"
			}
			fmt.Fprintf(os.Stdout, "%-20s  %-10s  %6d  %6d  %-7t  %s\n",
				e.Name, root, e.Nodes, e.Edges, e.Indexed, e.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var catalogOpenCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Print a catalog entry or write it to a snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		g, report, err := store.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		logReport("catalog:"+args[0], report)

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			render.Tree(os.Stdout, g)
			return nil
		}
		return storeGraph(g, snapshotPath(out))
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	catalogOpenCmd.Flags().StringP("out", "o", "", "write the entry to this snapshot instead of printing it")

	catalogCmd.AddCommand(catalogSaveCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogOpenCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)

	rootCmd.AddCommand(catalogCmd)
}
