package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply the schema and seed the catalog",
	Long:  "Create the database schema and populate the standard F2L/OLL/PLL case catalog with its default algorithms and reference data. Safe to run repeatedly.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Seed declaration JSON file (defaults to the embedded case set)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if seedFile != "" {
		cfg.SeedFile = seedFile
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.SeedFile != "" {
		if err := database.SeedFromFile(ctx, cfg.SeedFile); err != nil {
			return err
		}
		logger.Info("catalog seeded", zap.String("seed_file", cfg.SeedFile))
		return nil
	}

	if err := database.Seed(ctx); err != nil {
		return err
	}
	logger.Info("catalog seeded")
	return nil
}
