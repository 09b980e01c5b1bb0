package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/db"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/observability"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded search runs and maintain the page cache",
	Long:  "List the most recent search runs stored in DATABASE_URL, show one run by ID, or purge expired cached pages.",
	RunE:  runRuns,
}

var (
	runsLimit int
	runsID    string
	runsPurge bool
)

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to list")
	runsCmd.Flags().StringVar(&runsID, "run-id", "", "Show a single run")
	runsCmd.Flags().BoolVar(&runsPurge, "purge-cache", false, "Delete expired cached pages")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	var id uuid.UUID
	if runsID != "" {
		parsed, err := uuid.Parse(runsID)
		if err != nil {
			return fmt.Errorf("invalid run ID: %w", err)
		}
		id = parsed
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.openStore(ctx, true); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runsPurge {
		n, err := a.store.PurgeExpiredPages(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purged %d expired pages\n", n)
	}

	var runs []db.SearchRun
	if id != uuid.Nil {
		run, err := a.store.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %s not found", id)
		}
		runs = []db.SearchRun{*run}
	} else {
		runs, err = a.store.ListRecentRuns(ctx, runsLimit)
		if err != nil {
			return err
		}
	}
	observability.NewPrinter(out).PrintRuns(runs)
	return nil
}
