package extraction

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/selectors"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// MaxCards bounds how many card elements are processed per document.
const MaxCards = 30

// Fields for which the cross-site alternative selectors are tried.
var genericFields = map[string]bool{
	selectors.FieldTitle:    true,
	selectors.FieldCompany:  true,
	selectors.FieldLocation: true,
	selectors.FieldDate:     true,
}

// recordKey maps a selector field to the job record key it fills.
var recordKey = map[string]string{
	selectors.FieldDate: "date_posted",
}

// Selector extracts one job record per card element using a site's selector table.
type Selector struct {
	catalog  *selectors.Catalog
	maxCards int
	log      *zap.SugaredLogger
}

// NewSelector creates a selector extractor over catalog.
func NewSelector(catalog *selectors.Catalog, log *zap.SugaredLogger) *Selector {
	if catalog == nil {
		catalog = selectors.Default()
	}
	return &Selector{catalog: catalog, maxCards: MaxCards, log: logging.OrNop(log)}
}

// Catalog returns the selector catalog in use.
func (s *Selector) Catalog() *selectors.Catalog {
	return s.catalog
}

// Cards finds the card elements for site. The site's job_card candidates are
// tried first, then the generic card selectors; the first selector with a
// match wins. The winning selector is returned for logging.
func (s *Selector) Cards(doc *goquery.Document, site selectors.Site) (*goquery.Selection, string) {
	candidates := concat(site.Candidates(selectors.FieldJobCard), s.catalog.GenericCards())
	for _, sel := range candidates {
		cards := doc.Find(sel)
		if cards.Length() > 0 {
			return cards, sel
		}
	}
	return nil, ""
}

// Extract pulls up to maxJobs records from doc. Cards that fail the
// minimum-validity check, or panic while being read, are skipped.
func (s *Selector) Extract(doc *goquery.Document, site string, maxJobs int) []types.JobRecord {
	if doc == nil {
		return nil
	}
	resolved := s.catalog.Lookup(site)
	cards, used := s.Cards(doc, resolved)
	if cards == nil {
		s.log.Debugw("no job cards matched", logging.FieldSite, resolved.Key)
		return nil
	}

	limit := s.maxCards
	if maxJobs > 0 && maxJobs < limit {
		limit = maxJobs
	}
	s.log.Debugw("matched job cards",
		logging.FieldSite, resolved.Key,
		logging.FieldSelector, used,
		logging.FieldCount, cards.Length())

	base := parseBase(resolved.BaseURL)
	var jobs []types.JobRecord
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		job, err := s.extractCard(card, resolved, base)
		if err != nil {
			s.log.Debugw("skipping card", logging.FieldError, err)
			return true
		}
		if job.Valid() {
			jobs = append(jobs, job)
		}
		return true
	})
	return jobs
}

func (s *Selector) extractCard(card *goquery.Selection, site selectors.Site, base *url.URL) (job types.JobRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("card extraction panicked: %v", r)
		}
	}()

	job = types.JobRecord{}
	for _, field := range selectors.RecordFields {
		if v := s.fieldText(card, site, field); v != "" {
			key := field
			if k, ok := recordKey[field]; ok {
				key = k
			}
			job[key] = v
		}
	}

	inferFields(job, cardLines(card))

	if href := s.linkHref(card, site); href != "" {
		if link := resolveLink(base, href); link != "" {
			job["job_url"] = link
		}
	}
	job["source"] = site.Key
	return job, nil
}

// fieldText tries the site's selectors for field, then the generic alternatives.
func (s *Selector) fieldText(card *goquery.Selection, site selectors.Site, field string) string {
	for _, sel := range site.Candidates(field) {
		if v := text(card.Find(sel)); v != "" {
			return v
		}
	}
	if !genericFields[field] {
		return ""
	}
	for _, sel := range s.catalog.GenericField(field) {
		if v := text(card.Find(sel)); v != "" {
			return v
		}
	}
	return ""
}

// linkHref finds the listing link: the site's job_url selectors, the generic
// link selectors, then the card itself when it is an anchor.
func (s *Selector) linkHref(card *goquery.Selection, site selectors.Site) string {
	candidates := concat(site.Candidates(selectors.FieldJobURL), s.catalog.GenericField(selectors.FieldJobURL))
	for _, sel := range candidates {
		if href := hrefOf(card.Find(sel).First()); href != "" {
			return href
		}
	}
	href, _ := card.Attr("href")
	return href
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
