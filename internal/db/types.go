package db

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// CachedPage is a search results page kept for reuse within its TTL.
type CachedPage struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Site        string    `json:"site"`
	RawHTML     string    `json:"-"` // Don't serialize (large)
	ContentHash string    `json:"content_hash,omitempty"`
	HTTPStatus  int       `json:"http_status"`
	FetchStatus string    `json:"fetch_status"`
	FetchedAt   time.Time `json:"fetched_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsFresh reports whether the page is usable at now.
func (p *CachedPage) IsFresh(now time.Time) bool {
	return p.FetchStatus == FetchStatusSuccess && now.Before(p.ExpiresAt)
}

// SearchRun records one orchestrated search.
type SearchRun struct {
	ID          uuid.UUID `json:"id"`
	Site        string    `json:"site"`
	SearchTerm  string    `json:"search_term"`
	Location    string    `json:"location"`
	Filters     []string  `json:"filters,omitempty"`
	Tier        string    `json:"tier"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	JobCount    int       `json:"job_count"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Duration is the wall time of the run.
func (r *SearchRun) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// FetchStatus constants for cached pages
const (
	FetchStatusSuccess  = "success"   // Page fetched successfully
	FetchStatusError    = "error"     // Generic error (may retry)
	FetchStatusNotFound = "not_found" // 404/410
	FetchStatusBlocked  = "blocked"   // 403/429 - blocked by server
)

// DefaultPageCacheTTL is how long a search page stays fresh.
const DefaultPageCacheTTL = 6 * time.Hour

// FetchStatusFromHTTP determines fetch status from HTTP status code
func FetchStatusFromHTTP(status int) string {
	switch {
	case status >= 200 && status < 300:
		return FetchStatusSuccess
	case status == 404 || status == 410:
		return FetchStatusNotFound
	case status == 403 || status == 429:
		return FetchStatusBlocked
	default:
		return FetchStatusError
	}
}

// HashContent computes SHA-256 hash of content for change detection
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
