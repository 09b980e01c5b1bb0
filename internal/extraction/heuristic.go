package extraction

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/normalize"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// Size window for heuristic blocks, in runes. Smaller blocks are navigation
// chrome; larger ones are whole page sections.
const (
	HeuristicMinLen = 50
	HeuristicMaxLen = 1000
)

const heuristicContainers = "div, article, li"

var (
	jobKeywords           = []string{"job", "position", "hiring"}
	corroboratingKeywords = []string{"apply", "company", "location"}
)

// Heuristic finds job-like text blocks in generic containers when no
// selector matched. It favours recall over precision.
type Heuristic struct {
	log *zap.SugaredLogger
}

// NewHeuristic creates a heuristic extractor.
func NewHeuristic(log *zap.SugaredLogger) *Heuristic {
	return &Heuristic{log: logging.OrNop(log)}
}

// Extract scans div, article and li elements whose text mentions a job
// keyword and a corroborating keyword within the size window. Only the
// innermost qualifying blocks are used, each read as one card.
func (h *Heuristic) Extract(doc *goquery.Document, site, baseURL string, maxJobs int) []types.JobRecord {
	if doc == nil {
		return nil
	}
	limit := MaxCards
	if maxJobs > 0 && maxJobs < limit {
		limit = maxJobs
	}

	qualifying := doc.Find(heuristicContainers).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return looksLikeJobBlock(normalize.Clean(s.Text()))
	})
	blocks := qualifying.NotSelection(qualifying.HasSelection(qualifying))
	h.log.Debugw("heuristic blocks", logging.FieldSite, site, logging.FieldCount, blocks.Length())

	base := parseBase(baseURL)
	var jobs []types.JobRecord
	blocks.EachWithBreak(func(_ int, block *goquery.Selection) bool {
		if len(jobs) >= limit {
			return false
		}
		job := types.JobRecord{}
		inferFields(job, cardLines(block))
		if link := resolveLink(base, hrefOf(block)); link != "" {
			job["job_url"] = link
		}
		if desc := normalize.Clean(block.Text()); desc != job.Title() {
			job["description"] = normalize.Truncate(desc, maxDescriptionLen)
		}
		if site != "" {
			job["source"] = site
		}
		if job.Valid() {
			jobs = append(jobs, job)
		}
		return true
	})
	return jobs
}

func looksLikeJobBlock(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < HeuristicMinLen || n > HeuristicMaxLen {
		return false
	}
	lower := strings.ToLower(text)
	return containsAny(lower, jobKeywords) && containsAny(lower, corroboratingKeywords)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
