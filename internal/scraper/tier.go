// Package scraper implements the extraction tiers tried in turn by the
// orchestrator: a lightweight HTTP scraper, a dedicated LinkedIn scraper, a
// headless browser scraper and the static sample dataset.
package scraper

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// Tier is one extraction strategy. Scrape never panics and never returns a
// nil Result; failures are reported in Result.Err with no jobs.
type Tier interface {
	Name() types.Tier
	Scrape(ctx context.Context, plan types.SearchPlan) Result
}

// Result is the tagged outcome of one tier attempt.
type Result struct {
	Jobs   []types.JobRecord
	Tier   types.Tier
	Method extraction.Method
	Err    error
}

// Empty reports whether the attempt produced no jobs.
func (r Result) Empty() bool {
	return len(r.Jobs) == 0
}

func failed(tier types.Tier, err error) Result {
	return Result{Tier: tier, Method: extraction.MethodNone, Err: err}
}

// guard runs fn and turns a panic into a failed Result.
func guard(tier types.Tier, log *zap.SugaredLogger, fn func() Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("tier panicked", logging.FieldTier, string(tier), "panic", r)
			res = failed(tier, fmt.Errorf("%s tier panicked: %v", tier, r))
		}
	}()
	res = fn()
	res.Tier = tier
	if res.Method == "" {
		res.Method = extraction.MethodNone
	}
	return res
}
