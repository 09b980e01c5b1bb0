package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetCachedPage returns the cached page for pageURL if it is fresh and was
// fetched successfully. A miss returns nil, nil.
func (db *DB) GetCachedPage(ctx context.Context, pageURL string) (*CachedPage, error) {
	var p CachedPage
	var rawHTML, contentHash *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, url, site, raw_html, content_hash, http_status, fetch_status, fetched_at, expires_at
		 FROM cached_pages WHERE url = $1`,
		pageURL,
	).Scan(&p.ID, &p.URL, &p.Site, &rawHTML, &contentHash, &p.HTTPStatus, &p.FetchStatus, &p.FetchedAt, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached page: %w", err)
	}
	if rawHTML != nil {
		p.RawHTML = *rawHTML
	}
	if contentHash != nil {
		p.ContentHash = *contentHash
	}

	if !p.IsFresh(time.Now()) {
		return nil, nil
	}
	return &p, nil
}

// SaveCachedPage inserts or replaces the cached copy of page.URL. The page
// expires ttl from now; a zero ttl uses DefaultPageCacheTTL.
func (db *DB) SaveCachedPage(ctx context.Context, page *CachedPage, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultPageCacheTTL
	}
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	if page.FetchStatus == "" {
		page.FetchStatus = FetchStatusFromHTTP(page.HTTPStatus)
	}
	page.ContentHash = HashContent(page.RawHTML)
	page.ExpiresAt = time.Now().Add(ttl)

	err := db.pool.QueryRow(ctx,
		`INSERT INTO cached_pages (id, url, site, raw_html, content_hash, http_status, fetch_status, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8)
		 ON CONFLICT (url) DO UPDATE SET
		     site = $3,
		     raw_html = $4,
		     content_hash = $5,
		     http_status = $6,
		     fetch_status = $7,
		     fetched_at = NOW(),
		     expires_at = $8
		 RETURNING id, fetched_at`,
		page.ID, page.URL, page.Site, page.RawHTML, page.ContentHash, page.HTTPStatus, page.FetchStatus, page.ExpiresAt,
	).Scan(&page.ID, &page.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to save cached page: %w", err)
	}
	return nil
}

// PurgeExpiredPages deletes cache entries past their expiry and returns how
// many were removed.
func (db *DB) PurgeExpiredPages(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM cached_pages WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cached pages: %w", err)
	}
	return tag.RowsAffected(), nil
}
