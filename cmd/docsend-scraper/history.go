package main

import (
	"encoding/json"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/docsend-scraper/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent downloads",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of entries to show (0 for all)")
	historyCmd.Flags().String("subject", "", "only downloads of this URL or presentation id")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ledger, err := history.Open(currentConfig().Downloads.HistoryDB)
	if err != nil {
		return err
	}
	defer ledger.Close()

	var entries []history.Entry
	if subject, _ := cmd.Flags().GetString("subject"); subject != "" {
		entries, err = ledger.ForSubject(cmd.Context(), subject)
	} else {
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err = ledger.Recent(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	t := newTable()
	t.AppendHeader(table.Row{"When", "Kind", "File", "Subject", "Bytes"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Filename, e.Subject, e.Bytes})
	}
	t.Render()
	return nil
}
