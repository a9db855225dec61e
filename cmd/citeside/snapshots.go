// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/citeside/internal/graph"
	"github.com/pdiddy/citeside/internal/snapshot"
)

// loadGraph reads a snapshot file and logs every edge that could not be
// restored.
func loadGraph(path string) (*graph.Graph, error) {
	g, report, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	logReport(path, report)
	return g, nil
}

func logReport(source string, report graph.Report) {
	for _, issue := range report.Issues {
		if issue.Outcome.Rejected() {
			logger.Warn("edge rejected", "source", source, "issue", issue.String())
		} else {
			logger.Debug("duplicate skipped", "source", source, "issue", issue.String())
		}
	}
}

// storeGraph writes g to path and reports where it went.
func storeGraph(g *graph.Graph, path string) error {
	if err := snapshot.Store(g, path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d nodes, %d edges)\n", path, g.Len(), g.EdgeCount())
	return nil
}

// snapshotPath resolves a bare name such as "full" against the snapshot
// directory and adds the default extension when none is given. Names with
// a directory part ("./full.json") are used as given.
func snapshotPath(name string) string {
	if filepath.Ext(name) == "" {
		name += "." + string(cfg.Snapshot.Format)
	}
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return name
	}
	return filepath.Join(cfg.Snapshot.Dir, name)
}
