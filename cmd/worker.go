package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/databunker/enrich/internal/enrich"
)

var workerID string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the enrichment worker loop until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := newPipelineEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		worker := enrich.NewWorker(env.queue, env.enricher, enrich.WorkerConfig{
			ID:             workerID,
			BatchSize:      cfg.Worker.BatchSize,
			BatchDelay:     time.Duration(cfg.Worker.BatchDelaySecs) * time.Second,
			EmptyDelay:     time.Duration(cfg.Worker.EmptyDelaySecs) * time.Second,
			ErrorDelay:     time.Duration(cfg.Worker.ErrorDelaySecs) * time.Second,
			EnqueueScanCap: cfg.Worker.EnqueueScanCap,
			StatsEvery:     cfg.Worker.StatsEvery,
		})

		err = worker.Run(ctx)

		snap := worker.Stats().Snapshot()
		zap.L().Info("worker finished",
			zap.Int64("processed", snap.Processed),
			zap.Int64("succeeded", snap.Succeeded),
			zap.Int64("failed", snap.Failed),
			zap.Int64("no_data", snap.NoData))
		return err
	},
}

func init() {
	workerCmd.Flags().StringVar(&workerID, "worker-id", "", "label for this worker's log lines")
	rootCmd.AddCommand(workerCmd)
}
