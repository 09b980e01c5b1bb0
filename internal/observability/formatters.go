// Package observability formats search results for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/db"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/normalize"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/orchestrator"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/selectors"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

const (
	// boxWidth is the width of printed boxes.
	boxWidth = 72
	// descriptionWidth bounds descriptions in job listings.
	descriptionWidth = 140
)

// Printer writes human-readable summaries.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a titled box around content.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(normalize.Truncate(line, boxWidth-7), boxWidth-4))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes.
func pad(s string, n int) string {
	if k := n - len([]rune(s)); k > 0 {
		return s + strings.Repeat(" ", k)
	}
	return s
}

// PrintPlan shows the effective search plan.
func (p *Printer) PrintPlan(plan types.SearchPlan) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Site:     %s\n", plan.Site)
	fmt.Fprintf(&sb, "Term:     %s\n", plan.SearchTerm)
	if plan.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", plan.Location)
	}
	if len(plan.Filters) > 0 {
		fmt.Fprintf(&sb, "Filters:  %s\n", strings.Join(plan.Filters, ", "))
	}
	fmt.Fprintf(&sb, "Max jobs: %d\n", plan.MaxJobs)
	p.printBox("SEARCH PLAN", sb.String())
}

// PrintOutcome summarizes a run: the tier attempts and the final status.
func (p *Printer) PrintOutcome(out orchestrator.Outcome) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Status: %s\n", out.Status)
	if out.Tier != types.TierNone && out.Tier != "" {
		fmt.Fprintf(&sb, "Tier:   %s (%s)\n", out.Tier, out.Method)
	}
	fmt.Fprintf(&sb, "Jobs:   %d\n", len(out.Jobs))
	if out.Err != nil {
		fmt.Fprintf(&sb, "Error:  %v\n", out.Err)
	}

	if len(out.Attempts) > 0 {
		sb.WriteString("\nAttempts:\n")
		for _, a := range out.Attempts {
			mark := "✓"
			detail := fmt.Sprintf("%d jobs", a.Jobs)
			if a.Jobs == 0 {
				mark = "✗"
				detail = "empty"
				if a.Err != nil {
					detail = a.Err.Error()
				}
			}
			fmt.Fprintf(&sb, "  %s %-11s %6s  %s\n", mark, a.Tier, a.Duration.Round(time.Millisecond), detail)
		}
	}

	if len(out.States) > 0 {
		states := make([]string, len(out.States))
		for i, s := range out.States {
			states[i] = string(s)
		}
		fmt.Fprintf(&sb, "\nPath: %s\n", strings.Join(states, " → "))
	}
	p.printBox("SEARCH RESULT", sb.String())
}

// PrintJobs lists job records, one numbered block each.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJobs(jobs []types.JobRecord) {
	if len(jobs) == 0 {
		fmt.Fprintln(p.out, "No jobs to show.")
		return
	}
	for i, job := range jobs {
		fmt.Fprintf(p.out, "%2d. %s\n", i+1, job.Title())
		line := joinNonEmpty(" | ", job.Get("company"), job.Get("location"), job.Get(types.DateFields...))
		if line != "" {
			fmt.Fprintf(p.out, "    %s\n", line)
		}
		if v := joinNonEmpty(" | ", job.Get(types.SalaryFields...), job.Get(types.ExperienceFields...), job.Get("job_type")); v != "" {
			fmt.Fprintf(p.out, "    %s\n", v)
		}
		if v := job.Get("skills"); v != "" {
			fmt.Fprintf(p.out, "    Skills: %s\n", v)
		}
		if v := job.Get("description"); v != "" {
			fmt.Fprintf(p.out, "    %s\n", normalize.Truncate(v, descriptionWidth))
		}
		if v := job.Get(types.LinkFields...); v != "" {
			fmt.Fprintf(p.out, "    %s\n", v)
		}
	}
}

// PrintSites lists the selector catalog's sites.
func (p *Printer) PrintSites(catalog *selectors.Catalog) {
	var sb strings.Builder
	for _, key := range catalog.Sites() {
		site := catalog.Lookup(key)
		marker := " "
		if key == catalog.DefaultSite() {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %-14s %s\n", marker, key, site.BaseURL)
	}
	sb.WriteString("\n* default for unknown sites")
	p.printBox("SUPPORTED SITES", sb.String())
}

// PrintRuns lists recorded runs, newest first.
func (p *Printer) PrintRuns(runs []db.SearchRun) {
	if len(runs) == 0 {
		p.printBox("RECENT RUNS", "No runs recorded.")
		return
	}
	var sb strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&sb, "%s  %-12s %3d jobs  %-11s %s\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Site, r.JobCount, r.Tier, r.SearchTerm)
		if r.Error != "" {
			fmt.Fprintf(&sb, "    error: %s\n", r.Error)
		}
	}
	p.printBox("RECENT RUNS", sb.String())
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, s := range parts {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
