package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"

	"github.com/pdiddy/docsend-scraper/internal/app"
	"github.com/pdiddy/docsend-scraper/internal/history"
	"github.com/pdiddy/docsend-scraper/internal/presentations"
	"github.com/pdiddy/docsend-scraper/internal/scraperapi"
	"github.com/pdiddy/docsend-scraper/pkg/types"
)

func currentConfig() types.Config {
	return loadConfig(viper.GetViper(), loadedSecrets)
}

// openSession builds a session against the configured service. The returned
// ledger records downloads and must be closed by the caller.
func openSession(cfg types.Config) (*app.Session, *history.Ledger, error) {
	ledger, err := history.Open(cfg.Downloads.HistoryDB)
	if err != nil {
		return nil, nil, err
	}
	client := scraperapi.NewClient(cfg.API)
	return app.NewSession(client, app.WithRecorder(ledger)), ledger, nil
}

// saveDownload writes d to out, or to the downloads directory under its own
// filename when out is empty, and returns the path written.
func saveDownload(d presentations.Download, dir, out string) (string, error) {
	path := out
	if path == "" {
		path = filepath.Join(dir, d.Filename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, d.Body, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
