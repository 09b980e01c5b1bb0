package types

import "strings"

// JobRecord is one extracted job listing. Field names are not enforced:
// different tiers use different names for the same attribute, so consumers
// try the synonym lists below.
type JobRecord map[string]string

// Field synonym lists, tried in priority order.
var (
	DateFields       = []string{"date_posted", "posted_date", "date"}
	LinkFields       = []string{"job_url", "link", "url"}
	SalaryFields     = []string{"salary", "salary_range"}
	ExperienceFields = []string{"experience_level", "experience"}
)

// Get returns the first non-empty value among keys.
func (j JobRecord) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(j[k]); v != "" {
			return v
		}
	}
	return ""
}

// Title returns the trimmed title.
func (j JobRecord) Title() string {
	return strings.TrimSpace(j["title"])
}

// Valid reports whether the record has a title and at least one other
// non-empty field. Records failing this check never enter a result set.
func (j JobRecord) Valid() bool {
	if j.Title() == "" {
		return false
	}
	for k, v := range j {
		if k == "title" || k == "source" {
			continue
		}
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy safe to mutate.
func (j JobRecord) Clone() JobRecord {
	out := make(JobRecord, len(j))
	for k, v := range j {
		out[k] = v
	}
	return out
}

// canonicalFields maps each output key to the synonyms folded into it.
var canonicalFields = []struct {
	key      string
	synonyms []string
}{
	{"title", []string{"title"}},
	{"company", []string{"company"}},
	{"location", []string{"location"}},
	{"date_posted", DateFields},
	{"job_url", LinkFields},
	{"salary", SalaryFields},
	{"experience", []string{"experience"}},
	{"experience_level", []string{"experience_level"}},
	{"job_type", []string{"job_type", "employment_type"}},
	{"skills", []string{"skills"}},
	{"description", []string{"description"}},
	{"source", []string{"source"}},
}

// CanonicalKeys lists the keys a canonicalized record may carry, in output order.
func CanonicalKeys() []string {
	keys := make([]string, len(canonicalFields))
	for i, f := range canonicalFields {
		keys[i] = f.key
	}
	return keys
}

// Canonicalize folds synonym keys into a stable output schema. Unknown keys
// and empty values are dropped.
func Canonicalize(j JobRecord) JobRecord {
	out := make(JobRecord, len(canonicalFields))
	for _, f := range canonicalFields {
		if v := j.Get(f.synonyms...); v != "" {
			out[f.key] = v
		}
	}
	return out
}

// CanonicalizeAll canonicalizes every record, preserving order.
func CanonicalizeAll(jobs []JobRecord) []JobRecord {
	out := make([]JobRecord, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, Canonicalize(j))
	}
	return out
}

// fieldKeys maps a plan field name to the canonical keys it selects.
var fieldKeys = map[string][]string{
	"title":       {"title"},
	"company":     {"company"},
	"location":    {"location"},
	"date":        {"date_posted"},
	"link":        {"job_url"},
	"description": {"description"},
	"salary":      {"salary"},
	"experience":  {"experience", "experience_level"},
}

// enrichmentKeys are added by enhancement and kept by every projection.
var enrichmentKeys = []string{"experience_level", "job_type", "skills", "source"}

// Project keeps the keys of a canonicalized record selected by fields, plus
// the title and the enrichment keys. No fields selects everything. When the
// projection would leave the record invalid, j is returned unchanged.
func Project(j JobRecord, fields []string) JobRecord {
	if len(fields) == 0 {
		return j
	}
	keep := map[string]bool{"title": true}
	for _, k := range enrichmentKeys {
		keep[k] = true
	}
	for _, f := range fields {
		for _, k := range fieldKeys[f] {
			keep[k] = true
		}
	}

	out := make(JobRecord, len(j))
	for k, v := range j {
		if keep[k] {
			out[k] = v
		}
	}
	if !out.Valid() {
		return j
	}
	return out
}

// ProjectAll projects every record, preserving order.
func ProjectAll(jobs []JobRecord, fields []string) []JobRecord {
	out := make([]JobRecord, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, Project(j, fields))
	}
	return out
}

// Tier names one extraction strategy in the fallback sequence.
type Tier string

// Tier constants in fallback order.
const (
	TierNone        Tier = "none"
	TierLightweight Tier = "lightweight"
	TierDedicated   Tier = "dedicated"
	TierBrowser     Tier = "browser"
	TierStatic      Tier = "static"
)

// SelectorSet maps a field name to its ordered candidate selectors.
type SelectorSet map[string][]string
