package fetch

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/db"
)

type fakeGetter struct {
	calls int
	page  *Page
	err   error
}

func (g *fakeGetter) Get(_ context.Context, rawURL string) (*Page, error) {
	g.calls++
	if g.page != nil {
		p := *g.page
		p.URL = rawURL
		return &p, g.err
	}
	return nil, g.err
}

type fakeCache struct {
	pages   map[string]*db.CachedPage
	saved   []*db.CachedPage
	ttl     time.Duration
	getErr  error
	saveErr error
}

func (c *fakeCache) GetCachedPage(_ context.Context, pageURL string) (*db.CachedPage, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.pages[pageURL], nil
}

func (c *fakeCache) SaveCachedPage(_ context.Context, page *db.CachedPage, ttl time.Duration) error {
	c.saved = append(c.saved, page)
	c.ttl = ttl
	return c.saveErr
}

const cachedURL = "https://www.naukri.com/go-jobs"

func TestCachedFetcher_Hit(t *testing.T) {
	next := &fakeGetter{}
	cache := &fakeCache{pages: map[string]*db.CachedPage{
		cachedURL: {URL: cachedURL, RawHTML: "<html>cached</html>", HTTPStatus: 200},
	}}

	page, err := NewCachedFetcher(next, cache, 0, nil).Get(context.Background(), cachedURL)
	require.NoError(t, err)
	assert.True(t, page.FromCache)
	assert.Equal(t, "<html>cached</html>", page.HTML)
	assert.Equal(t, 0, next.calls)
}

func TestCachedFetcher_MissStoresPage(t *testing.T) {
	next := &fakeGetter{page: &Page{HTML: "<html>fresh</html>", StatusCode: http.StatusOK}}
	cache := &fakeCache{}

	page, err := NewCachedFetcher(next, cache, time.Hour, nil).Get(context.Background(), cachedURL)
	require.NoError(t, err)
	assert.False(t, page.FromCache)
	assert.Equal(t, 1, next.calls)

	require.Len(t, cache.saved, 1)
	assert.Equal(t, cachedURL, cache.saved[0].URL)
	assert.Equal(t, SiteNaukri, cache.saved[0].Site)
	assert.Equal(t, db.FetchStatusSuccess, cache.saved[0].FetchStatus)
	assert.Equal(t, time.Hour, cache.ttl)
}

func TestCachedFetcher_FailuresAreNotCached(t *testing.T) {
	fetchErr := &Error{URL: cachedURL, StatusCode: http.StatusForbidden, Message: "HTTP status 403"}
	next := &fakeGetter{page: &Page{StatusCode: http.StatusForbidden}, err: fetchErr}
	cache := &fakeCache{}

	page, err := NewCachedFetcher(next, cache, 0, nil).Get(context.Background(), cachedURL)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, page.StatusCode)
	assert.Empty(t, cache.saved)
}

func TestCachedFetcher_CacheErrorsAreIgnored(t *testing.T) {
	next := &fakeGetter{page: &Page{HTML: "ok", StatusCode: http.StatusOK}}
	cache := &fakeCache{getErr: errors.New("connection refused"), saveErr: errors.New("connection refused")}

	page, err := NewCachedFetcher(next, cache, 0, nil).Get(context.Background(), cachedURL)
	require.NoError(t, err)
	assert.Equal(t, "ok", page.HTML)
	assert.Equal(t, db.DefaultPageCacheTTL, cache.ttl)
}

func TestCachedFetcher_NilCache(t *testing.T) {
	next := &fakeGetter{page: &Page{HTML: "ok", StatusCode: http.StatusOK}}
	page, err := NewCachedFetcher(next, nil, 0, nil).Get(context.Background(), cachedURL)
	require.NoError(t, err)
	assert.Equal(t, "ok", page.HTML)
	assert.Equal(t, 1, next.calls)
}
