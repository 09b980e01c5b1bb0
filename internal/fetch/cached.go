package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/db"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
)

// PageCache stores fetched pages. *db.DB implements it.
type PageCache interface {
	GetCachedPage(ctx context.Context, pageURL string) (*db.CachedPage, error)
	SaveCachedPage(ctx context.Context, page *db.CachedPage, ttl time.Duration) error
}

// CachedFetcher serves fresh pages from a PageCache and fetches the rest.
// Cache failures never fail a fetch.
type CachedFetcher struct {
	next  Getter
	cache PageCache
	ttl   time.Duration
	log   *zap.SugaredLogger
}

// NewCachedFetcher wraps next. A zero ttl uses db.DefaultPageCacheTTL.
func NewCachedFetcher(next Getter, cache PageCache, ttl time.Duration, log *zap.SugaredLogger) *CachedFetcher {
	if ttl <= 0 {
		ttl = db.DefaultPageCacheTTL
	}
	return &CachedFetcher{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   logging.Component(log, "page_cache"),
	}
}

// Get returns the cached page for rawURL when fresh, else fetches it and
// stores successful responses.
func (f *CachedFetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	if f.cache == nil {
		return f.next.Get(ctx, rawURL)
	}

	cached, err := f.cache.GetCachedPage(ctx, rawURL)
	if err != nil {
		f.log.Warnw("cache lookup failed", logging.FieldURL, rawURL, logging.FieldError, err)
	}
	if cached != nil {
		f.log.Debugw("cache hit", logging.FieldURL, rawURL)
		return &Page{
			URL:        cached.URL,
			HTML:       cached.RawHTML,
			StatusCode: cached.HTTPStatus,
			FromCache:  true,
		}, nil
	}

	page, err := f.next.Get(ctx, rawURL)
	if err != nil {
		return page, err
	}

	entry := &db.CachedPage{
		URL:         rawURL,
		Site:        DetectSite(rawURL),
		RawHTML:     page.HTML,
		HTTPStatus:  page.StatusCode,
		FetchStatus: db.FetchStatusFromHTTP(page.StatusCode),
	}
	if err := f.cache.SaveCachedPage(ctx, entry, f.ttl); err != nil {
		f.log.Warnw("cache store failed", logging.FieldURL, rawURL, logging.FieldError, err)
	}
	return page, nil
}
