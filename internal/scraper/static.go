package scraper

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/fetch"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

//go:embed samples.json
var samplesJSON []byte

// Static serves pre-vetted sample listings. It is the last tier and never
// fails; its result is empty only when a known site has no samples.
type Static struct {
	jobs []types.JobRecord
	log  *zap.SugaredLogger
}

// NewStatic loads the embedded sample dataset.
func NewStatic(log *zap.SugaredLogger) *Static {
	jobs, err := parseSamples(samplesJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded samples are invalid: %v", err))
	}
	return &Static{jobs: jobs, log: logging.Component(log, "static")}
}

func parseSamples(data []byte) ([]types.JobRecord, error) {
	var jobs []types.JobRecord
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse samples: %w", err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no sample jobs")
	}
	for i, j := range jobs {
		if !j.Valid() {
			return nil, fmt.Errorf("sample %d is not a valid job record", i)
		}
	}
	return jobs, nil
}

// Name implements Tier.
func (t *Static) Name() types.Tier { return types.TierStatic }

// All returns a copy of every sample record.
func (t *Static) All() []types.JobRecord {
	return cloneAll(t.jobs)
}

// Scrape implements Tier.
func (t *Static) Scrape(_ context.Context, plan types.SearchPlan) Result {
	return guard(t.Name(), t.log, func() Result {
		jobs := t.Match(plan)
		t.log.Infow("serving sample jobs", logging.FieldSite, plan.Site, logging.FieldCount, len(jobs))
		return Result{Jobs: jobs, Method: extraction.MethodStatic}
	})
}

// Match selects samples for plan. A known site limits records to that
// site's samples, even when none exist; unknown sites draw from every
// sample. Search terms must all appear in the title, or all in the
// description; when no record qualifies the term is ignored. The location
// narrows only when it leaves something. The result is cut to MaxJobs.
func (t *Static) Match(plan types.SearchPlan) []types.JobRecord {
	pool := t.jobs
	if site := fetch.DetectSite(plan.Site); site != "" {
		pool = filterJobs(pool, func(j types.JobRecord) bool {
			return strings.EqualFold(j.Get("source"), site)
		})
	}

	if terms := strings.Fields(strings.ToLower(plan.SearchTerm)); len(terms) > 0 {
		byTerm := filterJobs(pool, func(j types.JobRecord) bool {
			return containsAll(j.Title(), terms) || containsAll(j.Get("description"), terms)
		})
		if len(byTerm) > 0 {
			pool = byTerm
		}
	}

	if loc := strings.ToLower(strings.TrimSpace(plan.Location)); loc != "" {
		byLoc := filterJobs(pool, func(j types.JobRecord) bool {
			return strings.Contains(strings.ToLower(j.Get("location")), loc)
		})
		if len(byLoc) > 0 {
			pool = byLoc
		}
	}

	n := plan.MaxJobs
	if n <= 0 {
		n = types.DefaultMaxJobs
	}
	if len(pool) > n {
		pool = pool[:n]
	}
	return cloneAll(pool)
}

func filterJobs(jobs []types.JobRecord, keep func(types.JobRecord) bool) []types.JobRecord {
	var out []types.JobRecord
	for _, j := range jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

func containsAll(text string, terms []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range terms {
		if !strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

func cloneAll(jobs []types.JobRecord) []types.JobRecord {
	out := make([]types.JobRecord, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}
