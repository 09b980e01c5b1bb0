package fetch

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// Site keys with a known search URL.
const (
	SiteFoundit  = "foundit.in"
	SiteIndeed   = "indeed.com"
	SiteNaukri   = "naukri.com"
	SiteLinkedIn = "linkedin.com"
)

// LinkedIn guest API paging.
const (
	LinkedInPageSize = 25
	LinkedInMaxStart = 1000
)

const linkedInGuestEndpoint = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

// DetectSite maps a URL or host to one of the known site keys, or "" when
// the host is not a supported job board.
func DetectSite(rawURL string) string {
	host := types.NormalizeSite(rawURL)
	for _, site := range types.SupportedSites {
		if host == site || strings.HasSuffix(host, "."+site) {
			return site
		}
	}
	// Regional hosts such as in.indeed.com or linkedin.cn
	for _, site := range types.SupportedSites {
		label := strings.SplitN(site, ".", 2)[0]
		if strings.Contains(host, label) {
			return site
		}
	}
	return ""
}

// SearchURL builds the primary search results URL for the plan's site.
// Unknown sites fall back to the default site's search.
func SearchURL(plan types.SearchPlan) string {
	urls := SearchURLs(plan)
	return urls[0]
}

// SearchURLs returns the primary search URL followed by alternate URL forms
// the site also serves listings on. Later entries are tried when earlier ones
// yield nothing.
func SearchURLs(plan types.SearchPlan) []string {
	term := strings.TrimSpace(plan.SearchTerm)
	loc := strings.TrimSpace(plan.Location)

	switch DetectSite(plan.Site) {
	case SiteIndeed:
		q := url.Values{"q": {term}, "l": {loc}, "sort": {"date"}}
		urls := []string{
			"https://www.indeed.com/jobs?" + q.Encode(),
			"https://in.indeed.com/jobs?" + url.Values{"q": {term}, "l": {loc}}.Encode(),
		}
		return urls

	case SiteNaukri:
		var urls []string
		if loc != "" {
			urls = append(urls,
				"https://www.naukri.com/"+slug(term)+"-jobs-in-"+slug(loc),
				"https://www.naukri.com/jobs-in-"+slug(loc)+"?"+url.Values{"keyword": {term}}.Encode(),
			)
		} else {
			urls = append(urls,
				"https://www.naukri.com/"+slug(term)+"-jobs",
				"https://www.naukri.com/jobs?"+url.Values{"keyword": {term}}.Encode(),
			)
		}
		return urls

	case SiteLinkedIn:
		q := LinkedInParams(plan.Filters)
		q.Set("keywords", term)
		q.Set("location", loc)
		return []string{"https://www.linkedin.com/jobs/search/?" + q.Encode()}

	default:
		q := url.Values{"searchType": {"personalizedSearch"}, "keyword": {term}, "location": {loc}, "sort": {"r"}}
		alt := "https://www.foundit.in/search/" + slug(term)
		if loc != "" {
			alt += "/" + slug(loc)
		}
		return []string{
			"https://www.foundit.in/srp/results?" + q.Encode(),
			alt,
			"https://www.foundit.in/jobs-by-skill/" + slug(term) + "-jobs",
		}
	}
}

// LinkedInParams translates filter phrases into LinkedIn search parameters.
// The posting window defaults to the past 24 hours.
func LinkedInParams(filters []string) url.Values {
	q := url.Values{}
	q.Set("f_TPR", "r86400")

	for _, f := range filters {
		p := strings.ToLower(strings.TrimSpace(f))
		switch {
		case strings.Contains(p, "month") || strings.Contains(p, "30 day"):
			q.Set("f_TPR", "r2592000")
		case strings.Contains(p, "week") || strings.Contains(p, "7 day"):
			q.Set("f_TPR", "r604800")
		case strings.Contains(p, "24 hour") || strings.Contains(p, "today") || strings.Contains(p, "1 day"):
			q.Set("f_TPR", "r86400")
		}

		if strings.Contains(p, "remote") || strings.Contains(p, "work from home") {
			q.Set("f_WT", "2")
		}

		switch {
		case strings.Contains(p, "internship") || p == "intern":
			q.Set("f_E", "1")
		case strings.Contains(p, "entry") || strings.Contains(p, "junior") || strings.Contains(p, "fresher"):
			q.Set("f_E", "2")
		case strings.Contains(p, "associate") || strings.Contains(p, "mid"):
			q.Set("f_E", "3")
		case strings.Contains(p, "senior") || strings.Contains(p, "lead"):
			q.Set("f_E", "4")
		case strings.Contains(p, "director") || strings.Contains(p, "executive"):
			q.Set("f_E", "5")
		}

		switch {
		case strings.Contains(p, "full time") || strings.Contains(p, "full-time"):
			q.Set("f_JT", "F")
		case strings.Contains(p, "part time") || strings.Contains(p, "part-time"):
			q.Set("f_JT", "P")
		case strings.Contains(p, "contract"):
			q.Set("f_JT", "C")
		case strings.Contains(p, "temporary"):
			q.Set("f_JT", "T")
		case strings.Contains(p, "volunteer"):
			q.Set("f_JT", "V")
		}
	}
	return q
}

// LinkedInGuestURL returns the guest API page of results starting at start.
func LinkedInGuestURL(plan types.SearchPlan, start int) string {
	q := LinkedInParams(plan.Filters)
	q.Set("keywords", strings.TrimSpace(plan.SearchTerm))
	q.Set("location", strings.TrimSpace(plan.Location))
	q.Set("start", strconv.Itoa(start))
	return linkedInGuestEndpoint + "?" + q.Encode()
}

// slug turns "Data Scientist" into "data-scientist" for path-style URLs.
func slug(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		fields[i] = url.PathEscape(f)
	}
	return strings.Join(fields, "-")
}
