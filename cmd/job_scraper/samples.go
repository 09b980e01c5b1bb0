package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/filter"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/observability"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/scraper"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Show the static sample jobs that match a search",
	Long:  "Print the entries of the built-in sample dataset that the static tier would return for a site, term and location.",
	RunE:  runSamples,
}

var samplesFlags searchFlags

func init() {
	samplesCmd.Flags().StringVarP(&samplesFlags.site, "site", "s", "", "Job board domain (default foundit.in)")
	samplesCmd.Flags().StringVarP(&samplesFlags.term, "term", "t", "", "Search term")
	samplesCmd.Flags().StringVarP(&samplesFlags.location, "location", "l", "", "Location")
	samplesCmd.Flags().StringArrayVarP(&samplesFlags.filters, "filter", "f", nil, "Filter phrase (repeatable)")
	samplesCmd.Flags().StringSliceVar(&samplesFlags.fields, "field", nil, "Fields to show (default all)")
	samplesCmd.Flags().IntVarP(&samplesFlags.maxJobs, "max", "n", types.MaxJobsLimit, "Maximum jobs to show")

	rootCmd.AddCommand(samplesCmd)
}

func runSamples(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	jobs := matchSamples(scraper.NewStatic(a.log), filter.New(a.log), samplesFlags)
	fmt.Fprintf(cmd.OutOrStdout(), "%d sample jobs\n\n", len(jobs))
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobs(jobs)
	return nil
}

// matchSamples returns the static matches for f, narrowed by its filters,
// canonicalized and projected onto --field when given.
func matchSamples(static *scraper.Static, engine *filter.Engine, f searchFlags) []types.JobRecord {
	plan := types.SearchPlan{
		Site:       f.site,
		SearchTerm: f.term,
		Location:   f.location,
		MaxJobs:    f.maxJobs,
	}.WithDefaults()
	jobs := engine.Apply(static.Match(plan), f.filters)
	return types.ProjectAll(types.CanonicalizeAll(jobs), f.fields)
}
