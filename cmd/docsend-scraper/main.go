// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docsend-scraper CLI. The serve
// command runs the web front end; the other commands drive the scraper
// service from the terminal.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docsend-scraper/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "DOCSEND_SCRAPER"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Set

var rootCmd = &cobra.Command{
	Use:   "docsend-scraper",
	Short: "Scrape DocSend presentations through the scraper service",
	Long: `docsend-scraper is a front end for the DocSend scraper service. It serves
the waitlist landing page and the scraper application over HTTP, and offers
the same operations from the command line: list presentations, scrape a
DocSend URL, convert a URL to PDF, and export a presentation as JSON, text,
or YAML.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		initSlog(verbose)

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
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
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docsend-scraper.yaml or ~/.config/docsend-scraper/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of secret files")
	rootCmd.PersistentFlags().String("api-url", "", "scraper service base URL")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")

	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docsend-scraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docsend-scraper"))
		}
	}

	configure(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
