// Package main provides the job_scraper command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_scraper",
	Short: "Scrape job listings from Indian and global job boards",
	Long: "job_scraper runs a search plan against a job board, falling back from plain HTTP " +
		"to a dedicated LinkedIn scraper, a headless browser and finally a static sample dataset.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	verboseCount int
	configPath   string
	jsonLogs     bool
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (default $JOB_SCRAPER_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
