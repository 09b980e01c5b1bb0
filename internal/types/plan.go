// Package types provides type definitions for the search plans and job records
// shared by the extraction tiers, the filter engine and the CLI.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultSite is used when a plan does not name a site.
const DefaultSite = "foundit.in"

// DefaultMaxJobs is the result limit applied when a plan does not set one.
const DefaultMaxJobs = 10

// MaxJobsLimit is the largest result limit a plan may request.
const MaxJobsLimit = 100

// MaxFilters is the most filter phrases a plan may carry.
const MaxFilters = 20

// KnownFields are the field names a plan may request.
var KnownFields = []string{"title", "company", "location", "date", "link", "description", "salary", "experience"}

// DefaultFields are extracted when a plan does not list any.
var DefaultFields = []string{"title", "company", "location", "date", "link"}

// SupportedSites lists the site identifiers with dedicated selector tables.
var SupportedSites = []string{"foundit.in", "indeed.com", "naukri.com", "linkedin.com"}

// SearchPlan describes one search request. It is produced by an external
// planner and treated as read-only by every extraction tier.
type SearchPlan struct {
	Site       string   `json:"site" validate:"omitempty,max=100"`
	SearchTerm string   `json:"search_term" validate:"required,max=200"`
	Location   string   `json:"location,omitempty" validate:"max=200"`
	Filters    []string `json:"filters,omitempty" validate:"max=20,dive,max=200"`
	Fields     []string `json:"fields,omitempty" validate:"dive,oneof=title company location date link description salary experience"`
	MaxJobs    int      `json:"max_jobs,omitempty" validate:"min=0,max=100"`
}

// Validate validates the SearchPlan using the validator.
func (p *SearchPlan) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// WithDefaults returns a copy of the plan with empty values replaced by defaults.
// Unknown sites are kept as-is; selector lookup falls back to the default site.
func (p SearchPlan) WithDefaults() SearchPlan {
	out := p
	out.Site = NormalizeSite(p.Site)
	if out.Site == "" {
		out.Site = DefaultSite
	}
	out.SearchTerm = strings.TrimSpace(p.SearchTerm)
	out.Location = strings.TrimSpace(p.Location)
	if len(p.Fields) == 0 {
		out.Fields = append([]string(nil), DefaultFields...)
	} else {
		out.Fields = append([]string(nil), p.Fields...)
	}
	out.Filters = make([]string, 0, len(p.Filters))
	for _, f := range p.Filters {
		if f = strings.TrimSpace(f); f != "" {
			out.Filters = append(out.Filters, f)
		}
	}
	switch {
	case p.MaxJobs <= 0:
		out.MaxJobs = DefaultMaxJobs
	case p.MaxJobs > MaxJobsLimit:
		out.MaxJobs = MaxJobsLimit
	}
	return out
}

// NormalizeSite reduces a site identifier or URL to its bare host form,
// e.g. "https://www.Naukri.com/jobs" becomes "naukri.com".
func NormalizeSite(site string) string {
	s := strings.ToLower(strings.TrimSpace(site))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// IsLinkedIn reports whether the site identifies LinkedIn.
func IsLinkedIn(site string) bool {
	return strings.Contains(NormalizeSite(site), "linkedin")
}
