package extraction

import (
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/selectors"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// Method names the extractor that produced a result.
type Method string

// Extraction methods, from most to least precise.
const (
	MethodNone       Method = "none"
	MethodStructured Method = "structured"
	MethodSelectors  Method = "selectors"
	MethodHeuristic  Method = "heuristic"
	MethodStatic     Method = "static"
)

// Result is the output of one extraction pass.
type Result struct {
	Jobs   []types.JobRecord
	Method Method
}

// Chain runs structured data, selector and heuristic extraction in order and
// keeps the first non-empty result.
type Chain struct {
	selector  *Selector
	heuristic *Heuristic
	log       *zap.SugaredLogger
}

// NewChain builds a chain over catalog. A nil catalog means the built-in one.
func NewChain(catalog *selectors.Catalog, log *zap.SugaredLogger) *Chain {
	log = logging.Component(log, "extraction")
	return &Chain{
		selector:  NewSelector(catalog, log),
		heuristic: NewHeuristic(log),
		log:       log,
	}
}

// Catalog returns the selector catalog used by the chain.
func (c *Chain) Catalog() *selectors.Catalog {
	return c.selector.Catalog()
}

// RunHTML parses html and runs the chain. Unparseable documents produce an
// empty result.
func (c *Chain) RunHTML(html, site string, maxJobs int) Result {
	doc, err := Parse(html)
	if err != nil {
		c.log.Warnw("document parse failed", logging.FieldSite, site, logging.FieldError, err)
		return Result{Method: MethodNone}
	}
	return c.Run(doc, site, maxJobs)
}

// Run extracts up to maxJobs records from doc.
func (c *Chain) Run(doc *goquery.Document, site string, maxJobs int) Result {
	resolved := c.Catalog().Lookup(site)

	if jobs := Structured(doc, resolved.Key, resolved.BaseURL); len(jobs) > 0 {
		return c.done(truncate(jobs, maxJobs), MethodStructured, resolved.Key)
	}
	if jobs := c.selector.Extract(doc, site, maxJobs); len(jobs) > 0 {
		return c.done(jobs, MethodSelectors, resolved.Key)
	}
	if jobs := c.heuristic.Extract(doc, resolved.Key, resolved.BaseURL, maxJobs); len(jobs) > 0 {
		return c.done(jobs, MethodHeuristic, resolved.Key)
	}
	c.log.Debugw("no jobs extracted", logging.FieldSite, resolved.Key)
	return Result{Method: MethodNone}
}

func (c *Chain) done(jobs []types.JobRecord, m Method, site string) Result {
	c.log.Infow("extracted jobs",
		logging.FieldSite, site,
		logging.FieldMethod, string(m),
		logging.FieldCount, len(jobs))
	return Result{Jobs: jobs, Method: m}
}

func truncate(jobs []types.JobRecord, n int) []types.JobRecord {
	if n > 0 && len(jobs) > n {
		return jobs[:n]
	}
	return jobs
}
