package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
)

// Browser defaults.
const (
	DefaultNavTimeout  = 30 * time.Second
	DefaultWaitTimeout = 10 * time.Second
	DefaultSettleDelay = 2 * time.Second
)

// ErrBrowserClosed is returned by Render after Close.
var ErrBrowserClosed = errors.New("browser session closed")

// BrowserOptions configures a headless browser session.
type BrowserOptions struct {
	Headless    bool
	UserAgent   string
	NavTimeout  time.Duration
	WaitTimeout time.Duration
	// SettleDelay is waited after scrolling so lazy-loaded cards render.
	SettleDelay time.Duration
}

// DefaultBrowserOptions returns headless defaults.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Headless:    true,
		UserAgent:   DefaultUserAgents[0],
		NavTimeout:  DefaultNavTimeout,
		WaitTimeout: DefaultWaitTimeout,
		SettleDelay: DefaultSettleDelay,
	}
}

// BrowserSession is one Chrome process with one tab. Close must be called on
// every path once the session is open. Requires Chrome/Chromium to be
// installed on the system.
type BrowserSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        BrowserOptions
	log         *zap.SugaredLogger

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

// OpenBrowser starts a headless browser. The session outlives ctx only until
// ctx is cancelled.
func OpenBrowser(ctx context.Context, opts BrowserOptions, log *zap.SugaredLogger) (*BrowserSession, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = DefaultNavTimeout
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = DefaultWaitTimeout
	}
	log = logging.Component(log, "browser")

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// The first Run starts the browser. It must not carry a timeout, or the
	// browser would be torn down when it fires.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	log.Debugw("browser started")

	return &BrowserSession{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        opts,
		log:         log,
	}, nil
}

// Render navigates to url, waits for waitSelector to appear, scrolls to the
// bottom and returns the rendered HTML. A selector that never appears is
// logged and the page is returned as it stands.
func (b *BrowserSession) Render(ctx context.Context, url, waitSelector string) (string, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return "", ErrBrowserClosed
	}

	runCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	b.log.Infow("rendering page", logging.FieldURL, url)

	navCtx, navCancel := context.WithTimeout(runCtx, b.opts.NavTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(url))
	navCancel()
	if err != nil {
		return "", fmt.Errorf("browser navigation failed: %w", err)
	}

	if waitSelector != "" {
		waitCtx, waitCancel := context.WithTimeout(runCtx, b.opts.WaitTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible(waitSelector, chromedp.ByQuery))
		waitCancel()
		if err != nil {
			b.log.Warnw("job cards did not appear", logging.FieldURL, url, logging.FieldSelector, waitSelector, logging.FieldError, err)
		}
	}

	var html string
	err = chromedp.Run(runCtx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(b.opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	b.log.Debugw("rendered page", logging.FieldURL, url, logging.FieldCount, len(html))
	return html, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (b *BrowserSession) Close() error {
	var err error
	b.once.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()

		err = chromedp.Cancel(b.ctx)
		b.cancelTab()
		b.cancelAlloc()
		b.log.Debugw("browser closed")
	})
	return err
}
