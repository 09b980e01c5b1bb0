package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/observability"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract job listings from a saved HTML page",
	Long:  "Run the structured data, selector and heuristic extractors on a local HTML file using the selectors of --site.",
	RunE:  runExtract,
}

var (
	extractInputFile string
	extractSite      string
	extractMaxJobs   int
	extractJSON      bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractInputFile, "in", "i", "", "Path to HTML file (required)")
	extractCmd.Flags().StringVarP(&extractSite, "site", "s", "", "Site whose selectors apply (default foundit.in)")
	extractCmd.Flags().IntVarP(&extractMaxJobs, "max", "n", types.DefaultMaxJobs, "Maximum jobs to extract")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the jobs as JSON")
	_ = extractCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	html, err := os.ReadFile(extractInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	site := types.NormalizeSite(extractSite)
	if site == "" {
		site = types.DefaultSite
	}
	res := extractFile(extraction.NewChain(a.catalog, a.log), string(html), site, extractMaxJobs)

	out := cmd.OutOrStdout()
	if extractJSON {
		data, err := json.MarshalIndent(res.Jobs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal jobs: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintf(out, "Extracted %d jobs from %s for %s (%s)\n\n", len(res.Jobs), extractInputFile, site, res.Method)
	observability.NewPrinter(out).PrintJobs(res.Jobs)
	return nil
}

// extractFile runs the chain on html and canonicalizes the jobs. Jobs is
// never nil.
func extractFile(chain *extraction.Chain, html, site string, maxJobs int) extraction.Result {
	if maxJobs <= 0 {
		maxJobs = types.DefaultMaxJobs
	}
	res := chain.RunHTML(html, site, maxJobs)
	res.Jobs = types.CanonicalizeAll(res.Jobs)
	if res.Jobs == nil {
		res.Jobs = []types.JobRecord{}
	}
	return res
}
