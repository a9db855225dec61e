//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// corpusGlob matches the corpus files Graph builds from.
const corpusGlob = "data/corpus/*"

// Graph builds the full citation graph from every file in data/corpus.
func Graph() error {
	mg.Deps(Build)
	files, err := filepath.Glob(corpusGlob)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no corpus files in %s", filepath.Dir(corpusGlob))
	}
	return sh.RunV(binPath, append([]string{"build", "-o", "full"}, files...)...)
}

// Crawl extracts the neighborhood of the paper named by $PAPER from the
// full graph.
func Crawl() error {
	mg.Deps(Graph)
	paper := os.Getenv("PAPER")
	if paper == "" {
		return fmt.Errorf("set PAPER to the root paper id")
	}
	return sh.RunV(binPath, "crawl", "full", paper)
}
