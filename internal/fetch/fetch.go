// Package fetch retrieves job search pages over HTTP with retries, rotating
// user agents and per-host pacing, and renders script-heavy pages in a
// headless browser.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
)

// Defaults for Options.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 2
	DefaultMinDelay      = 1 * time.Second
	DefaultMaxDelay      = 3 * time.Second
	DefaultRateLimitWait = 10 * time.Second
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// DefaultUserAgents are rotated across requests.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

var defaultHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}

// ErrRateLimited marks a response rejected with HTTP 429.
var ErrRateLimited = errors.New("rate limited")

// Page holds the raw content from a URL fetch.
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
	FromCache   bool
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether another attempt could succeed: transport
// failures, 429 and 5xx responses.
func (e *Error) Retryable() bool {
	if errors.Is(e.Cause, context.Canceled) || errors.Is(e.Cause, context.DeadlineExceeded) {
		return false
	}
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Options configures the fetch behavior.
type Options struct {
	Timeout       time.Duration
	MaxRetries    int
	MinDelay      time.Duration
	MaxDelay      time.Duration
	RateLimitWait time.Duration
	UserAgents    []string
	Headers       map[string]string

	// RequestsPerSecond paces requests to a single host. Zero disables pacing.
	RequestsPerSecond float64
	Burst             int
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
		MinDelay:          DefaultMinDelay,
		MaxDelay:          DefaultMaxDelay,
		RateLimitWait:     DefaultRateLimitWait,
		UserAgents:        DefaultUserAgents,
		RequestsPerSecond: 0.5,
		Burst:             1,
	}
}

// Getter fetches a page by URL.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*Page, error)
}

// Fetcher is an HTTP client tuned for job boards. It is safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	opts    Options
	limiter *HostLimiter
	next    atomic.Uint64
	sleep   func(context.Context, time.Duration) error
	log     *zap.SugaredLogger
}

// New creates a Fetcher. A nil opts uses DefaultOptions.
func New(opts *Options, log *zap.SugaredLogger) *Fetcher {
	o := DefaultOptions()
	if opts != nil {
		o = opts
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if len(o.UserAgents) == 0 {
		o.UserAgents = DefaultUserAgents
	}
	return &Fetcher{
		client:  &http.Client{Timeout: o.Timeout},
		opts:    *o,
		limiter: NewHostLimiter(o.RequestsPerSecond, o.Burst),
		sleep:   sleepContext,
		log:     logging.Component(log, "fetch"),
	}
}

// Options returns the options in effect.
func (f *Fetcher) Options() Options {
	return f.opts
}

// Get retrieves rawURL, retrying transient failures up to MaxRetries times
// with a random delay between attempts. A 429 response waits RateLimitWait
// before the next attempt. On a non-200 final response the Page is returned
// together with the error.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	var (
		page    *Page
		lastErr error
	)
	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := jitter(f.opts.MinDelay, f.opts.MaxDelay)
			if errors.Is(lastErr, ErrRateLimited) {
				wait += f.opts.RateLimitWait
			}
			f.log.Debugw("retrying request",
				logging.FieldURL, rawURL,
				logging.FieldAttempt, attempt,
				logging.FieldDurationMS, wait.Milliseconds())
			if err := f.sleep(ctx, wait); err != nil {
				return page, &Error{URL: rawURL, Message: "request cancelled", Cause: err}
			}
		}
		if err := f.limiter.Wait(ctx, parsedURL.Host); err != nil {
			return page, &Error{URL: rawURL, Message: "request cancelled", Cause: err}
		}

		page, lastErr = f.do(ctx, rawURL)
		if lastErr == nil {
			return page, nil
		}
		var fetchErr *Error
		if !errors.As(lastErr, &fetchErr) || !fetchErr.Retryable() {
			break
		}
		f.log.Debugw("request failed", logging.FieldURL, rawURL, logging.FieldAttempt, attempt, logging.FieldError, lastErr)
	}

	f.log.Warnw("fetch failed", logging.FieldURL, rawURL, logging.FieldError, lastErr)
	return page, lastErr
}

func (f *Fetcher) do(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", f.userAgent())
	for key, value := range defaultHeaders {
		req.Header.Set(key, value)
	}
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return page, &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: "HTTP status 429", Cause: ErrRateLimited}
	case resp.StatusCode != http.StatusOK:
		return page, &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

func (f *Fetcher) userAgent() string {
	agents := f.opts.UserAgents
	return agents[int(f.next.Add(1)-1)%len(agents)]
}

// jitter returns a random duration in [lo, hi).
func jitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int64N(int64(hi-lo)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, form, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
