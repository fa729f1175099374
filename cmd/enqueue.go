package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	enqueueCap      int
	enqueuePriority int
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue [company-id ...]",
	Short: "Queue companies for enrichment",
	Long:  "With no arguments, scans for companies missing website, phone or email and queues them up to the cap. With arguments, queues the given companies by UUID or registration number. Companies with an active queue item are skipped either way.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := newStoreEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if len(args) == 0 {
			scanCap := enqueueCap
			if scanCap <= 0 {
				scanCap = cfg.Worker.EnqueueScanCap
			}
			n, err := env.queue.EnqueueMissing(ctx, scanCap)
			if err != nil {
				return err
			}
			fmt.Printf("queued %d companies\n", n)
			return nil
		}

		queued := 0
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				// Not a UUID; try it as a registration number.
				c, lookupErr := env.companies.GetCompanyByNumber(ctx, arg)
				if lookupErr != nil {
					return lookupErr
				}
				if c == nil {
					zap.L().Warn("skipping unknown company", zap.String("arg", arg))
					continue
				}
				id = c.ID
			}
			inserted, err := env.queue.Enqueue(ctx, id, enqueuePriority)
			if err != nil {
				return err
			}
			if inserted {
				queued++
			} else {
				fmt.Printf("%s already queued\n", id)
			}
		}
		fmt.Printf("queued %d companies\n", queued)
		return nil
	},
}

func init() {
	enqueueCmd.Flags().IntVar(&enqueueCap, "cap", 0, "max companies to queue in a scan (default from config)")
	enqueueCmd.Flags().IntVar(&enqueuePriority, "priority", 0, "priority for explicitly queued companies")
	rootCmd.AddCommand(enqueueCmd)
}
