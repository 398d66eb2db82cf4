// Package main provides the entry point for the cube algorithm catalog
// and render service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "cubecards",
	Short: "Rubik's cube algorithm catalog and render service",
	Long:  "cubecards manages a catalog of Rubik's cube algorithms (F2L/OLL/PLL), tracks learning progress, and renders move formulas into animation clips through a queued manim worker.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
