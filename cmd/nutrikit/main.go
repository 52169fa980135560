// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nutrikit CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voss/nutrikit/internal/secrets"
	"github.com/voss/nutrikit/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the nutrikit CLI.
var rootCmd = &cobra.Command{
	Use:   "nutrikit",
	Short: "Food lookup and caching pipeline for nutrition practices",
	Long: `nutrikit searches a remote nutrition corpus through a local SQLite cache.
The cache is consulted first and lazily populated from the corpus, so a
practice keeps working through corpus outages with whatever it has already
looked up.

Each operation is a subcommand: search finds foods by text, code, category,
or nutrient range; cache pre-warms and inspects the local database; catalog
exports the cache for the typeahead bundle and ranks it offline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		level := slog.LevelWarn
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nutrikit.yaml or ~/.config/nutrikit/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().String("db", "", "sqlite cache path (default: ./nutrikit.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nutrikit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nutrikit"))
		}
	}

	viper.SetEnvPrefix("NUTRIKIT")
	viper.AutomaticEnv()

	viper.SetDefault("corpus.timeout", "30s")
	viper.SetDefault("corpus.max_retries", 5)
	viper.SetDefault("cache.db_path", "nutrikit.db")
	viper.SetDefault("search.page_size", 20)
	viper.SetDefault("search.export_dir", "catalog")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the effective configuration from viper,
// flags, and loaded secrets.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Corpus: types.CorpusConfig{
			BaseURL:    viper.GetString("corpus.base_url"),
			APIKey:     secretDefault("tbca-api-key", viper.GetString("corpus.api_key")),
			MaxRetries: viper.GetInt("corpus.max_retries"),
		},
		Cache: types.CacheConfig{
			DBPath: viper.GetString("cache.db_path"),
		},
		Search: types.SearchConfig{
			PageSize:  viper.GetInt("search.page_size"),
			ExportDir: viper.GetString("search.export_dir"),
		},
	}
	cfg.Corpus.Timeout = viper.GetDuration("corpus.timeout")
	if cfg.Corpus.Timeout <= 0 {
		cfg.Corpus.Timeout = 30 * time.Second
	}
	cfg.Corpus.UserAgent = "nutrikit/" + version

	if db, _ := rootCmd.PersistentFlags().GetString("db"); db != "" {
		cfg.Cache.DBPath = db
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
