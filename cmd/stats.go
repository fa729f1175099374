package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show queue totals and field coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := newStoreEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		counts, err := env.queue.Counts(ctx)
		if err != nil {
			return err
		}
		coverage, err := env.companies.Coverage(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Queue")
		fmt.Printf("  pending:     %d\n", counts.Pending)
		fmt.Printf("  processing:  %d\n", counts.Processing)
		fmt.Printf("  completed:   %d\n", counts.Completed)
		fmt.Printf("  failed:      %d\n", counts.Failed)

		fmt.Println("Coverage")
		fmt.Printf("  companies:   %d\n", coverage.Total)
		fmt.Printf("  website:     %s\n", pct(coverage.WithWebsite, coverage.Total))
		fmt.Printf("  phone:       %s\n", pct(coverage.WithPhone, coverage.Total))
		fmt.Printf("  email:       %s\n", pct(coverage.WithEmail, coverage.Total))
		fmt.Printf("  industry:    %s\n", pct(coverage.WithIndustry, coverage.Total))
		return nil
	},
}

func pct(n, total int64) string {
	if total == 0 {
		return "0 (0.0%)"
	}
	return fmt.Sprintf("%d (%.1f%%)", n, float64(n)/float64(total)*100)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
