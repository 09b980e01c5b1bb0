package scraper

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/fetch"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/selectors"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// Renderer renders pages in a browser session. *fetch.BrowserSession
// implements it.
type Renderer interface {
	Render(ctx context.Context, url, waitSelector string) (string, error)
	Close() error
}

// Browser renders the search page in a headless browser, for sites that
// build their listings with JavaScript. Each Scrape opens its own session
// and closes it before returning.
type Browser struct {
	open  func(ctx context.Context) (Renderer, error)
	chain *extraction.Chain
	log   *zap.SugaredLogger

	// URL builds the page to render for a plan.
	URL func(types.SearchPlan) string
}

// NewBrowser creates the browser tier.
func NewBrowser(opts fetch.BrowserOptions, chain *extraction.Chain, log *zap.SugaredLogger) *Browser {
	log = logging.Component(log, "browser_tier")
	return &Browser{
		open: func(ctx context.Context) (Renderer, error) {
			return fetch.OpenBrowser(ctx, opts, log)
		},
		chain: chain,
		log:   log,
		URL:   fetch.SearchURL,
	}
}

// Name implements Tier.
func (t *Browser) Name() types.Tier { return types.TierBrowser }

// Scrape implements Tier.
func (t *Browser) Scrape(ctx context.Context, plan types.SearchPlan) Result {
	return guard(t.Name(), t.log, func() Result {
		session, err := t.open(ctx)
		if err != nil {
			return failed(t.Name(), fmt.Errorf("browser unavailable: %w", err))
		}
		defer func() {
			if err := session.Close(); err != nil {
				t.log.Debugw("browser close failed", logging.FieldError, err)
			}
		}()

		u := t.URL(plan)
		waitFor := strings.Join(t.chain.Catalog().Lookup(plan.Site).Candidates(selectors.FieldJobCard), ", ")
		html, err := session.Render(ctx, u, waitFor)
		if err != nil {
			return failed(t.Name(), err)
		}

		res := t.chain.RunHTML(html, plan.Site, plan.MaxJobs)
		if len(res.Jobs) == 0 {
			return failed(t.Name(), ErrNoJobs)
		}
		return Result{Jobs: res.Jobs, Method: res.Method}
	})
}
