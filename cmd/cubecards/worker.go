package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	workerOnce     bool
	workerInterval time.Duration
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the render worker",
	Long:  "Claim pending render jobs one at a time and execute them with manim. Runs until interrupted, or processes a single job with --once.",
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().BoolVar(&workerOnce, "once", false, "Process at most one job and exit")
	workerCmd.Flags().DurationVar(&workerInterval, "interval", 0, "Queue poll interval (overrides config)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	worker := newWorker(database, cfg, logger)
	if workerInterval > 0 {
		worker.PollInterval = workerInterval
	}

	if workerOnce {
		processed, err := worker.RunOnce(ctx)
		if err != nil {
			return err
		}
		if !processed {
			logger.Info("queue empty, nothing to do")
		}
		return nil
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
