package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/orchestrator"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/schemas"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch PLAN.json [PLAN.json...]",
	Short: "Run several search plans concurrently",
	Long: "Run each plan file through its own fetchers, browser and orchestrator and write one " +
		"results file per plan into the output directory.",
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var (
	batchOutDir      string
	batchConcurrency int
	batchNoBrowser   bool
	batchEnhance     bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Directory for the per-plan results files (required)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 2, "Plans run at the same time")
	batchCmd.Flags().BoolVar(&batchNoBrowser, "no-browser", false, "Skip the headless browser tier")
	batchCmd.Flags().BoolVar(&batchEnhance, "enhance", false, "Enrich jobs with Gemini (needs GEMINI_API_KEY)")
	_ = batchCmd.MarkFlagRequired("out-dir")

	rootCmd.AddCommand(batchCmd)
}

// batchResult is the summary of one plan in a batch.
type batchResult struct {
	planFile string
	outFile  string
	outcome  orchestrator.Outcome
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	plans := make([]*types.SearchPlan, len(args))
	for i, path := range args {
		plan, err := schemas.LoadPlan(path)
		if err != nil {
			return fmt.Errorf("failed to load plan %s: %w", path, err)
		}
		if plan.MaxJobs == 0 {
			plan.MaxJobs = a.cfg.MaxJobs
		}
		plans[i] = plan
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.openStore(ctx, false); err != nil {
		return err
	}

	results, err := runPlans(ctx, a, plans, args, a.runOptions(batchNoBrowser, batchEnhance, -1))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.outcome.Err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s: %v\n", r.planFile, r.outcome.Err)
			continue
		}
		fmt.Fprintf(out, "✓ %s: %s → %s\n", r.planFile, r.outcome.Status, r.outFile)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d plans failed", failed, len(results))
	}
	return nil
}

// runPlans runs plans with at most batchConcurrency in flight. Each plan
// gets a freshly wired orchestrator. Results keep the order of plans.
func runPlans(ctx context.Context, a *app, plans []*types.SearchPlan, names []string, ro runOptions) ([]batchResult, error) {
	results := make([]batchResult, len(plans))

	g, ctx := errgroup.WithContext(ctx)
	if batchConcurrency > 0 {
		g.SetLimit(batchConcurrency)
	}
	for i, plan := range plans {
		g.Go(func() error {
			orch, done, err := a.newOrchestrator(ctx, ro)
			if err != nil {
				return err
			}
			defer done()

			outcome := orch.Run(ctx, plan)
			outFile := filepath.Join(batchOutDir, resultsFileName(names[i]))
			if outcome.Err == nil {
				if err := writeReport(outFile, outcome); err != nil {
					return fmt.Errorf("plan %s: %w", names[i], err)
				}
			}
			a.log.Infow("plan finished",
				"plan", names[i],
				logging.FieldSite, outcome.Plan.Site,
				logging.FieldTier, string(outcome.Tier),
				logging.FieldCount, len(outcome.Jobs))
			results[i] = batchResult{planFile: names[i], outFile: outFile, outcome: outcome}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resultsFileName maps plans/naukri.json to naukri.results.json.
func resultsFileName(planFile string) string {
	base := filepath.Base(planFile)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".results.json"
}
