// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citeside CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citeside/internal/secrets"
	"github.com/pdiddy/citeside/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the effective configuration after defaults, config file,
// environment and secrets are applied.
var cfg = types.DefaultConfig()

// logger writes diagnostics to stderr.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// rootCmd is the base command for the citeside CLI.
var rootCmd = &cobra.Command{
	Use:   "citeside",
	Short: "Trace arguments through citation graphs",
	Long: `citeside builds acyclic citation graphs from a paper corpus, crawls
bounded neighborhoods around a paper, combines externally supplied scores
into critical indices and validates whether an argument is supported along
the chain of cited papers.

Graphs are stored as JSON or YAML snapshot files and can be kept in a local
SQLite catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		slog.SetDefault(logger)

		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		s.Apply(&cfg)

		return cfg.Validate()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citeside.yaml or ~/.config/citeside/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citeside")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citeside"))
		}
	}

	setDefaults(types.DefaultConfig())
	viper.SetEnvPrefix("CITESIDE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", "path", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so that environment variables
// such as CITESIDE_ENTAILMENT_MODEL are picked up by Unmarshal.
func setDefaults(d types.Config) {
	viper.SetDefault("graph.crawl_depth", d.Graph.CrawlDepth)
	viper.SetDefault("graph.reverse_depth", d.Graph.ReverseDepth)
	viper.SetDefault("graph.combine_mode", d.Graph.CombineMode)
	viper.SetDefault("snapshot.dir", d.Snapshot.Dir)
	viper.SetDefault("snapshot.format", string(d.Snapshot.Format))
	viper.SetDefault("catalog.dir", d.Catalog.Dir)
	viper.SetDefault("corpus.paths", d.Corpus.Paths)
	viper.SetDefault("entailment.base_url", d.Entailment.BaseURL)
	viper.SetDefault("entailment.api_key", d.Entailment.APIKey)
	viper.SetDefault("entailment.model", d.Entailment.Model)
	viper.SetDefault("entailment.embedding_model", d.Entailment.EmbeddingModel)
	viper.SetDefault("entailment.timeout", d.Entailment.Timeout)
	viper.SetDefault("entailment.max_retries", d.Entailment.MaxRetries)
	viper.SetDefault("entailment.concurrency", d.Entailment.Concurrency)
	viper.SetDefault("entailment.chunk_size", d.Entailment.ChunkSize)
	viper.SetDefault("entailment.top_k", d.Entailment.TopK)
	viper.SetDefault("entailment.min_score", d.Entailment.MinScore)
	viper.SetDefault("entailment.margin", d.Entailment.Margin)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
