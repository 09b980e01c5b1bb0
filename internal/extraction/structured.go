package extraction

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/normalize"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

const maxDescriptionLen = 500

// Structured extracts schema.org JobPosting objects embedded as JSON-LD.
// A script block may hold one object, an array or an @graph. Blocks that fail
// to parse are skipped. Results are in document order.
func Structured(doc *goquery.Document, site, baseURL string) []types.JobRecord {
	if doc == nil {
		return nil
	}
	base := parseBase(baseURL)

	var jobs []types.JobRecord
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return
		}
		for _, posting := range jobPostings(data) {
			job := mapJobPosting(posting)
			if link := job["job_url"]; link != "" {
				job["job_url"] = resolveLink(base, link)
			}
			if site != "" {
				job["source"] = site
			}
			if job.Valid() {
				jobs = append(jobs, job)
			}
		}
	})
	return jobs
}

// jobPostings collects every JobPosting object reachable from a JSON-LD value.
func jobPostings(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, item := range t {
			out = append(out, jobPostings(item)...)
		}
		return out
	case map[string]any:
		if isJobPosting(t["@type"]) {
			return []map[string]any{t}
		}
		if graph, ok := t["@graph"]; ok {
			return jobPostings(graph)
		}
	}
	return nil
}

func isJobPosting(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, "JobPosting")
	case []any:
		for _, item := range t {
			if isJobPosting(item) {
				return true
			}
		}
	}
	return false
}

func mapJobPosting(p map[string]any) types.JobRecord {
	job := types.JobRecord{}
	set := func(key, value string) {
		if value = normalize.Clean(value); value != "" {
			job[key] = value
		}
	}

	set("title", asString(p["title"]))
	set("company", nameOf(p["hiringOrganization"]))
	set("location", locationOf(p["jobLocation"]))
	if job["location"] == "" && strings.EqualFold(asString(p["jobLocationType"]), "TELECOMMUTE") {
		job["location"] = "Remote"
	}
	set("date_posted", asString(p["datePosted"]))
	set("job_url", asString(p["url"]))
	set("job_type", joinStrings(p["employmentType"]))
	set("salary", salaryOf(p["baseSalary"]))
	set("experience", experienceOf(p["experienceRequirements"]))
	set("skills", joinStrings(p["skills"]))
	if desc := asString(p["description"]); desc != "" {
		set("description", normalize.Truncate(stripHTML(desc), maxDescriptionLen))
	}
	return job
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return ""
}

// nameOf reads an Organization that may be a plain string or an object.
func nameOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return asString(t["name"])
	case []any:
		if len(t) > 0 {
			return nameOf(t[0])
		}
	}
	return ""
}

// locationOf reads jobLocation as a Place or a list of Places and returns
// the first locality found, falling back to region then country.
func locationOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		for _, item := range t {
			if loc := locationOf(item); loc != "" {
				return loc
			}
		}
	case map[string]any:
		switch addr := t["address"].(type) {
		case string:
			return addr
		case map[string]any:
			for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
				if s := nameOf(addr[key]); s != "" {
					return s
				}
			}
		}
		return asString(t["name"])
	}
	return ""
}

// salaryOf formats a MonetaryAmount as "INR 10-15 LPA" so both bounds stay in
// the text.
func salaryOf(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return asString(v)
	}
	currency := asString(m["currency"])
	unit := asString(m["unitText"])

	var lo, hi string
	switch val := m["value"].(type) {
	case map[string]any:
		lo = asString(val["minValue"])
		hi = asString(val["maxValue"])
		if lo == "" && hi == "" {
			lo = asString(val["value"])
		}
		if u := asString(val["unitText"]); u != "" {
			unit = u
		}
	default:
		lo = asString(val)
	}

	var amount string
	switch {
	case lo != "" && hi != "" && lo != hi:
		amount = lo + "-" + hi
	case lo != "":
		amount = lo
	case hi != "":
		amount = hi
	default:
		return ""
	}
	return strings.Join(nonEmpty(currency, amount, unit), " ")
}

func experienceOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if months, ok := t["monthsOfExperience"].(float64); ok {
			return strconv.Itoa(int(months/12)) + "+ years"
		}
		return asString(t["description"])
	}
	return ""
}

func joinStrings(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// stripHTML flattens a description that may carry escaped or raw markup.
func stripHTML(s string) string {
	s = html.UnescapeString(s)
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(cardLines(doc.Selection), " ")
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
