package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/observability"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/orchestrator"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/schemas"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a job board and print the listings found",
	Long: "Run one search plan through the tier fallback chain, apply its filters and print the jobs. " +
		"The plan comes from flags or from a JSON file validated against search_plan.schema.json.",
	RunE: runSearch,
}

// searchFlags are the plan-building flags shared by search and samples.
type searchFlags struct {
	site     string
	term     string
	location string
	filters  []string
	fields   []string
	maxJobs  int
	planFile string
}

var (
	searchPlanFlags searchFlags
	searchNoBrowser bool
	searchEnhance   bool
	searchDetails   int
	searchOutput    string
)

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchPlanFlags.site, "site", "s", "", "Job board domain, e.g. naukri.com (default foundit.in)")
	f.StringVarP(&searchPlanFlags.term, "term", "t", "", "Search term (required unless --plan is given)")
	f.StringVarP(&searchPlanFlags.location, "location", "l", "", "Location to search in")
	f.StringArrayVarP(&searchPlanFlags.filters, "filter", "f", nil, "Filter phrase, e.g. \"Remote\" or \"2-5 years\" (repeatable)")
	f.StringSliceVar(&searchPlanFlags.fields, "field", nil, "Fields to extract (default title,company,location,date,link)")
	f.IntVarP(&searchPlanFlags.maxJobs, "max", "n", 0, "Maximum jobs to return (default from config)")
	f.StringVarP(&searchPlanFlags.planFile, "plan", "p", "", "Path to a search plan JSON file")
	f.BoolVar(&searchNoBrowser, "no-browser", false, "Skip the headless browser tier")
	f.BoolVar(&searchEnhance, "enhance", false, "Enrich jobs with Gemini (needs GEMINI_API_KEY)")
	f.IntVar(&searchDetails, "details", -1, "LinkedIn jobs whose detail page is fetched (default from config)")
	f.StringVarP(&searchOutput, "out", "o", "", "Write the results as JSON to this file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	plan, err := buildPlan(searchPlanFlags, a.cfg.MaxJobs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.openStore(ctx, false); err != nil {
		return err
	}

	orch, done, err := a.newOrchestrator(ctx, a.runOptions(searchNoBrowser, searchEnhance, searchDetails))
	if err != nil {
		return err
	}
	defer done()

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintPlan(plan.WithDefaults())

	outcome := orch.Run(ctx, plan)
	printer.PrintOutcome(outcome)
	printer.PrintJobs(outcome.Jobs)

	if outcome.Err != nil {
		return fmt.Errorf("search failed: %w", outcome.Err)
	}
	if searchOutput != "" {
		if err := writeReport(searchOutput, outcome); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults written to %s\n", searchOutput)
	}
	return nil
}

// runOptions merges command flags over the configuration. A negative
// details value means "use the configured one".
func (a *app) runOptions(noBrowser, enhance bool, details int) runOptions {
	if details < 0 {
		details = a.cfg.LinkedInDetails
	}
	return runOptions{
		browser:         a.cfg.UseBrowser && !noBrowser,
		enhance:         enhance || a.cfg.Enhance,
		linkedInDetails: details,
	}
}

// buildPlan turns flags into a search plan. A plan file cannot be combined
// with --term. defaultMax applies when neither the flags nor the file set
// a limit.
func buildPlan(f searchFlags, defaultMax int) (*types.SearchPlan, error) {
	var plan *types.SearchPlan
	if f.planFile != "" {
		if f.term != "" {
			return nil, fmt.Errorf("cannot use --plan with --term")
		}
		loaded, err := schemas.LoadPlan(f.planFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load plan: %w", err)
		}
		plan = loaded
	} else {
		if f.term == "" {
			return nil, fmt.Errorf("--term is required (or use --plan)")
		}
		plan = &types.SearchPlan{
			Site:       f.site,
			SearchTerm: f.term,
			Location:   f.location,
			Filters:    f.filters,
			Fields:     f.fields,
		}
	}

	if f.maxJobs > 0 {
		plan.MaxJobs = f.maxJobs
	}
	if plan.MaxJobs == 0 {
		plan.MaxJobs = defaultMax
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search plan: %w", err)
	}
	return plan, nil
}

// writeReport writes the outcome as JSON after checking it against
// job_results.schema.json.
func writeReport(path string, outcome orchestrator.Outcome) error {
	data, err := json.MarshalIndent(outcome.Report(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := schemas.ValidateResults(data); err != nil {
		return fmt.Errorf("results failed schema validation: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
