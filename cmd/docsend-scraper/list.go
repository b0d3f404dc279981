// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/docsend-scraper/internal/presentations"
	"github.com/pdiddy/docsend-scraper/internal/scraperapi"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scraped presentations",
	Long: `List fetches every presentation the scraper service holds. --search keeps
only presentations whose title or slide text contains the term, ignoring
case.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("search", "", "filter by title or slide text")
	listCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	store := presentations.NewStore(scraperapi.NewClient(cfg.API))
	if err := store.Reload(cmd.Context()); err != nil {
		return err
	}

	term, _ := cmd.Flags().GetString("search")
	list := presentations.Filter(store.List(), term)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		if term != "" {
			fmt.Println("No presentations match your search.")
		} else {
			fmt.Println("No presentations yet.")
		}
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Title", "Status", "Slides", "Created"})
	for _, p := range list {
		t.AppendRow(table.Row{p.ID, p.DisplayTitle(), p.Status, p.SlideCount, p.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
	return nil
}
