// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docsend-scraper/internal/app"
	"github.com/pdiddy/docsend-scraper/internal/presentations"
)

var exportCmd = &cobra.Command{
	Use:   "export <presentation-id>",
	Short: "Export a presentation as JSON, text, or YAML",
	Long: `Export fetches the presentation list, then writes the presentation with the
given id to the downloads directory, or to --out. Formats: json, txt, yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "json", "export format (json, txt, yaml)")
	exportCmd.Flags().String("out", "", "output file (default: downloads directory)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := presentations.ParseFormat(name)
	if err != nil {
		return err
	}

	cfg := currentConfig()
	sess, ledger, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer ledger.Close()

	if err := sess.Mount(cmd.Context()); err != nil {
		return errors.New(sess.View().Error)
	}
	d, err := sess.Export(cmd.Context(), args[0], format)
	if errors.Is(err, app.ErrNotFound) {
		return fmt.Errorf("no presentation with id %q", args[0])
	}
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	path, err := saveDownload(d, cfg.Downloads.Dir, out)
	if err != nil {
		return err
	}
	fmt.Println("Saved", path)
	return nil
}
