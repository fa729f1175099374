package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var scrapeCountry string

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape contact details from a website",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := newScraper().ScrapeCompanyContacts(cmd.Context(), args[0], scrapeCountry)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeCountry, "country", "", "registered country, used for phone formatting")
	rootCmd.AddCommand(scrapeCmd)
}
