package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/config"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/db"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/enhance"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/fetch"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/filter"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/llm"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/orchestrator"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/scraper"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/selectors"
)

// app holds the resolved configuration and the resources shared by a
// command's runs.
type app struct {
	cfg     config.Config
	log     *zap.SugaredLogger
	catalog *selectors.Catalog
	store   *db.DB
}

// newApp resolves configuration, builds the logger and loads the selector
// catalog. The database is opened separately by openStore.
func newApp() (*app, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}

	verbosity := verboseCount
	if cfg.Verbose && verbosity == 0 {
		verbosity = logging.VerbosityInfo
	}
	log := logging.New(verbosity, jsonLogs)

	catalog := selectors.Default()
	if cfg.SelectorsPath != "" {
		catalog, err = selectors.LoadFile(cfg.SelectorsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load selectors: %w", err)
		}
		log.Infow("loaded selector catalog", "path", cfg.SelectorsPath, logging.FieldCount, len(catalog.Sites()))
	}

	return &app{cfg: cfg, log: log, catalog: catalog}, nil
}

// openStore connects to DATABASE_URL when one is configured. A database
// that cannot be reached is logged and skipped unless required is set.
func (a *app) openStore(ctx context.Context, required bool) error {
	if a.cfg.DatabaseURL == "" {
		if required {
			return fmt.Errorf("database URL is required (set %s or database_url in the config file)", config.EnvDatabaseURL)
		}
		return nil
	}

	store, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err == nil {
		err = store.Migrate(ctx)
		if err != nil {
			store.Close()
		}
	}
	if err != nil {
		if required {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.log.Warnw("database unavailable; continuing without page cache and run log", logging.FieldError, err)
		return nil
	}
	a.store = store
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.log.Sync()
}

// fetchOptions applies the configured fetch settings to base.
func (a *app) fetchOptions(base *fetch.Options) *fetch.Options {
	opts := *base
	opts.Timeout = a.cfg.TimeoutDuration()
	if a.cfg.RequestsPerSecond > 0 {
		opts.RequestsPerSecond = a.cfg.RequestsPerSecond
	}
	if len(a.cfg.UserAgents) > 0 {
		opts.UserAgents = a.cfg.UserAgents
	}
	return &opts
}

// getter builds a fetcher over opts, behind the page cache when a database
// is open.
func (a *app) getter(opts *fetch.Options) fetch.Getter {
	var g fetch.Getter = fetch.New(opts, a.log)
	if a.store != nil {
		g = fetch.NewCachedFetcher(g, a.store, a.cfg.CacheTTL(), a.log)
	}
	return g
}

// runOptions selects the optional parts of a run.
type runOptions struct {
	browser         bool
	enhance         bool
	linkedInDetails int
}

// tiers builds a fresh set of tiers. Fetchers and browser sessions are not
// shared between the sets returned by separate calls.
func (a *app) tiers(ro runOptions) orchestrator.Tiers {
	chain := extraction.NewChain(a.catalog, a.log)

	general := fetch.DefaultOptions()
	general.MaxRetries = a.cfg.MaxRetries
	lightweight := scraper.NewLightweight(a.getter(a.fetchOptions(general)), chain, a.log)

	linkedIn := scraper.NewLinkedIn(a.getter(a.fetchOptions(scraper.LinkedInFetchOptions())), chain, a.log)
	linkedIn.DetailLimit = ro.linkedInDetails

	tiers := orchestrator.Tiers{
		Lightweight: lightweight,
		Dedicated:   linkedIn,
		Static:      scraper.NewStatic(a.log),
	}
	if ro.browser {
		bopts := fetch.DefaultBrowserOptions()
		if len(a.cfg.UserAgents) > 0 {
			bopts.UserAgent = a.cfg.UserAgents[0]
		}
		bopts.NavTimeout = a.cfg.TimeoutDuration()
		tiers.Browser = scraper.NewBrowser(bopts, chain, a.log)
	}
	return tiers
}

// enhancer returns the LLM enhancer when enhancement is requested and an
// API key is configured, and enhance.Noop otherwise. Without a key
// enhancement is skipped with a warning. The returned close func is never nil.
func (a *app) enhancer(ctx context.Context, enabled bool) (enhance.Enhancer, func(), error) {
	noop := func() {}
	if !enabled {
		return enhance.Noop{}, noop, nil
	}
	if a.cfg.APIKey == "" {
		a.log.Warnw("enhancement requested without an API key; skipping", "env", config.EnvAPIKey)
		return enhance.Noop{}, noop, nil
	}

	llmCfg := llm.DefaultConfig()
	if a.cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierLite, a.cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmCfg, a.cfg.APIKey)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return enhance.NewLLMEnhancer(client, a.log), func() { _ = client.Close() }, nil
}

// newOrchestrator wires a fresh orchestrator for one run. Call the returned
// func when the run is finished.
func (a *app) newOrchestrator(ctx context.Context, ro runOptions) (*orchestrator.Orchestrator, func(), error) {
	enh, closeEnh, err := a.enhancer(ctx, ro.enhance)
	if err != nil {
		return nil, nil, err
	}

	opts := orchestrator.Options{
		Filter:   filter.New(a.log),
		Enhancer: enh,
		Logger:   a.log,
		OnTransition: func(from, to orchestrator.State) {
			a.log.Debugw("state transition", "from", string(from), logging.FieldState, string(to))
		},
	}
	if a.store != nil {
		opts.Recorder = a.store
	}
	return orchestrator.New(a.tiers(ro), opts), closeEnh, nil
}
