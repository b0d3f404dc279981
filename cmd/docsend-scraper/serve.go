// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docsend-scraper/internal/app"
	"github.com/pdiddy/docsend-scraper/internal/history"
	"github.com/pdiddy/docsend-scraper/internal/scraperapi"
	"github.com/pdiddy/docsend-scraper/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the landing page and the scraper application",
	Long: `Serve starts the web front end. "/" shows the waitlist landing page and
"/scraper" the scraper application. Downloads made through the web are
recorded in the history ledger unless --no-history is given.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().Bool("no-history", false, "do not record downloads")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()

	var recorder app.Recorder
	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		ledger, err := history.Open(cfg.Downloads.HistoryDB)
		if err != nil {
			return err
		}
		defer ledger.Close()
		recorder = ledger
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(cfg.Server, scraperapi.NewClient(cfg.API), recorder)
	return srv.Run(ctx)
}
