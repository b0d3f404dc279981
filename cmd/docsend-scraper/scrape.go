// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <docsend-url>",
	Short: "Ask the scraper service to scrape a DocSend URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runScrape,
}

var convertCmd = &cobra.Command{
	Use:   "convert <docsend-url>",
	Short: "Convert a DocSend URL to PDF",
	Long: `Convert asks the scraper service to render the document as a PDF and saves
it to the downloads directory as docsend_<document-id>_<timestamp>.pdf, or to
--out. Conversion can take up to api.convert_timeout (240s by default).`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	scrapeCmd.Flags().String("password", "", "password for protected documents")
	convertCmd.Flags().String("out", "", "output file (default: downloads directory)")

	rootCmd.AddCommand(scrapeCmd, convertCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	sess, ledger, err := openSession(currentConfig())
	if err != nil {
		return err
	}
	defer ledger.Close()

	password, _ := cmd.Flags().GetString("password")
	if err := sess.SubmitScrape(cmd.Context(), args[0], password); err != nil {
		return errors.New(sess.View().Error)
	}
	fmt.Println(sess.View().Status)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	sess, ledger, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer ledger.Close()

	d, err := sess.ConvertToPDF(cmd.Context(), args[0])
	if err != nil {
		return errors.New(sess.View().Error)
	}
	if d == nil {
		return errors.New("provide a DocSend URL")
	}

	out, _ := cmd.Flags().GetString("out")
	path, err := saveDownload(*d, cfg.Downloads.Dir, out)
	if err != nil {
		return err
	}
	fmt.Printf("%s Saved %s\n", sess.View().Status, path)
	return nil
}
