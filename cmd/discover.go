package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var discoverCountry string

var discoverCmd = &cobra.Command{
	Use:   "discover <company name>",
	Short: "Probe candidate domains for a company website",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newDiscoverer().Discover(cmd.Context(), args[0], discoverCountry)
		if err != nil {
			return err
		}
		if result.Found {
			fmt.Println(result.URL)
		} else {
			fmt.Printf("no website found (%d candidates checked)\n", result.Checked)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverCountry, "country", "", "registered country, used to pick TLDs")
	rootCmd.AddCommand(discoverCmd)
}
