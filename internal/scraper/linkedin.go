package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/fetch"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/normalize"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/selectors"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

const linkedInSite = "linkedin.com"

// LinkedInFetchOptions returns fetch options for LinkedIn: three retries with
// a 2-5s delay and a long wait after HTTP 429.
func LinkedInFetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.MaxRetries = 3
	opts.MinDelay = 2 * time.Second
	opts.MaxDelay = 5 * time.Second
	opts.RateLimitWait = 30 * time.Second
	return opts
}

// LinkedIn is the dedicated LinkedIn tier. It reads the public search page
// first, then pages through the guest jobs API until MaxJobs records are
// collected or the API runs dry.
type LinkedIn struct {
	fetcher fetch.Getter
	chain   *extraction.Chain
	log     *zap.SugaredLogger

	// SearchURL and GuestURL build request URLs for a plan.
	SearchURL func(types.SearchPlan) string
	GuestURL  func(types.SearchPlan, int) string

	// DetailLimit is how many of the collected jobs get their job page
	// fetched to fill in a missing description. Zero disables it.
	DetailLimit int
}

// NewLinkedIn creates the dedicated LinkedIn tier. The fetcher should be
// built from LinkedInFetchOptions.
func NewLinkedIn(fetcher fetch.Getter, chain *extraction.Chain, log *zap.SugaredLogger) *LinkedIn {
	return &LinkedIn{
		fetcher:   fetcher,
		chain:     chain,
		log:       logging.Component(log, "linkedin"),
		SearchURL: fetch.SearchURL,
		GuestURL:  fetch.LinkedInGuestURL,
	}
}

// Name implements Tier.
func (t *LinkedIn) Name() types.Tier { return types.TierDedicated }

// Handles reports whether the tier has a dedicated scraper for site.
func (t *LinkedIn) Handles(site string) bool {
	return types.IsLinkedIn(site)
}

// Scrape implements Tier.
func (t *LinkedIn) Scrape(ctx context.Context, plan types.SearchPlan) Result {
	return guard(t.Name(), t.log, func() Result {
		if !t.Handles(plan.Site) {
			return failed(t.Name(), fmt.Errorf("no dedicated scraper for %q", plan.Site))
		}
		maxJobs := plan.MaxJobs
		if maxJobs <= 0 {
			maxJobs = types.DefaultMaxJobs
		}

		var (
			jobs    []types.JobRecord
			method  = extraction.MethodNone
			lastErr = ErrNoJobs
			seen    = map[string]bool{}
		)
		add := func(found []types.JobRecord) int {
			added := 0
			for _, j := range found {
				if len(jobs) >= maxJobs {
					break
				}
				key := j.Get(types.LinkFields...)
				if key == "" {
					key = j.Title() + "|" + j.Get("company")
				}
				if seen[key] {
					continue
				}
				seen[key] = true
				jobs = append(jobs, j)
				added++
			}
			return added
		}

		searchURL := t.SearchURL(plan)
		if page, err := t.fetcher.Get(ctx, searchURL); err != nil {
			t.log.Infow("search page unavailable", logging.FieldURL, searchURL, logging.FieldError, err)
			lastErr = err
		} else {
			res := t.chain.RunHTML(page.HTML, linkedInSite, maxJobs)
			add(res.Jobs)
			method = res.Method
		}

		start := 0
		if len(jobs) > 0 {
			start = fetch.LinkedInPageSize
		}
		for len(jobs) < maxJobs && start < fetch.LinkedInMaxStart {
			if ctx.Err() != nil {
				lastErr = ctx.Err()
				break
			}
			guestURL := t.GuestURL(plan, start)
			page, err := t.fetcher.Get(ctx, guestURL)
			if err != nil {
				t.log.Infow("guest API page failed", logging.FieldURL, guestURL, logging.FieldError, err)
				lastErr = err
				break
			}
			res := t.chain.RunHTML(page.HTML, linkedInSite, maxJobs-len(jobs))
			if len(res.Jobs) == 0 || add(res.Jobs) == 0 {
				t.log.Debugw("guest API exhausted", "start", start)
				break
			}
			if method == extraction.MethodNone {
				method = res.Method
			}
			start += fetch.LinkedInPageSize
		}

		if len(jobs) == 0 {
			return failed(t.Name(), lastErr)
		}
		t.fillDetails(ctx, jobs)
		t.log.Infow("collected jobs", logging.FieldCount, len(jobs), logging.FieldMethod, string(method))
		return Result{Jobs: jobs, Method: method}
	})
}

func (t *LinkedIn) fillDetails(ctx context.Context, jobs []types.JobRecord) {
	filled := 0
	for _, job := range jobs {
		if filled >= t.DetailLimit || ctx.Err() != nil {
			return
		}
		link := job.Get(types.LinkFields...)
		if link == "" || job.Get("description") != "" {
			continue
		}
		filled++
		detail, err := t.Details(ctx, link)
		if err != nil {
			t.log.Debugw("job details unavailable", logging.FieldURL, link, logging.FieldError, err)
			continue
		}
		for k, v := range detail {
			if job.Get(k) == "" {
				job[k] = v
			}
		}
	}
}

// Details fetches a single job page and reads its fields, preferring
// embedded structured data over the catalog's detail selectors.
func (t *LinkedIn) Details(ctx context.Context, jobURL string) (types.JobRecord, error) {
	page, err := t.fetcher.Get(ctx, jobURL)
	if err != nil {
		return nil, err
	}
	doc, err := extraction.Parse(page.HTML)
	if err != nil {
		return nil, err
	}

	catalog := t.chain.Catalog()
	site := catalog.Lookup(linkedInSite)
	if found := extraction.Structured(doc, site.Key, site.BaseURL); len(found) > 0 {
		job := found[0]
		if job.Get(types.LinkFields...) == "" {
			job["job_url"] = jobURL
		}
		return job, nil
	}

	job := types.JobRecord{"job_url": jobURL, "source": site.Key}
	for _, field := range selectors.RecordFields {
		if field == selectors.FieldDescription {
			continue
		}
		for _, sel := range site.DetailCandidates(field) {
			if v := normalize.Clean(doc.Find(sel).First().Text()); v != "" {
				job[field] = v
				break
			}
		}
	}
	if text, err := fetch.ExtractMainText(page.HTML, catalog.DetailDescription(site.Key)); err == nil && text != "" {
		job["description"] = normalize.Truncate(normalize.Clean(text), 500)
	}
	if !job.Valid() {
		return nil, fmt.Errorf("no job details found at %s", jobURL)
	}
	return job, nil
}
