package scraper

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/fetch"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// ErrNoJobs is reported by a tier that ran without error but found nothing.
var ErrNoJobs = errors.New("no jobs found")

// Lightweight fetches the site's search page over plain HTTP and runs the
// extraction chain on it. Alternate URL forms are tried in turn until one
// yields jobs.
type Lightweight struct {
	fetcher fetch.Getter
	chain   *extraction.Chain
	log     *zap.SugaredLogger

	// URLs builds the candidate search URLs for a plan.
	URLs func(types.SearchPlan) []string
}

// NewLightweight creates the lightweight tier.
func NewLightweight(fetcher fetch.Getter, chain *extraction.Chain, log *zap.SugaredLogger) *Lightweight {
	return &Lightweight{
		fetcher: fetcher,
		chain:   chain,
		log:     logging.Component(log, "lightweight"),
		URLs:    fetch.SearchURLs,
	}
}

// Name implements Tier.
func (t *Lightweight) Name() types.Tier { return types.TierLightweight }

// Scrape implements Tier.
func (t *Lightweight) Scrape(ctx context.Context, plan types.SearchPlan) Result {
	return guard(t.Name(), t.log, func() Result {
		lastErr := ErrNoJobs
		for _, u := range t.URLs(plan) {
			if ctx.Err() != nil {
				return failed(t.Name(), ctx.Err())
			}
			page, err := t.fetcher.Get(ctx, u)
			if err != nil {
				t.log.Infow("search page unavailable", logging.FieldURL, u, logging.FieldError, err)
				lastErr = err
				continue
			}
			res := t.chain.RunHTML(page.HTML, plan.Site, plan.MaxJobs)
			if len(res.Jobs) > 0 {
				return Result{Jobs: res.Jobs, Method: res.Method}
			}
			t.log.Debugw("no jobs on page", logging.FieldURL, u)
		}
		return failed(t.Name(), lastErr)
	})
}
