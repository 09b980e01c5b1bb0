// Package filter narrows job records by the free-text filter phrases of a
// search plan. Each phrase is classified into one predicate; records that
// carry no usable signal for a predicate are kept.
package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/normalize"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// Kind is the category of a filter phrase.
type Kind string

const (
	KindNone       Kind = "none"
	KindRemote     Kind = "remote"
	KindRecency    Kind = "recency"
	KindExperience Kind = "experience"
	KindSalary     Kind = "salary"
)

// Level is an experience bracket.
type Level string

const (
	LevelEntry  Level = "entry"
	LevelMid    Level = "mid"
	LevelSenior Level = "senior"
)

// Predicate is a classified filter phrase.
type Predicate struct {
	Kind   Kind
	Phrase string
	// Hours is the maximum posting age for KindRecency.
	Hours float64
	// FloorLakhs is the minimum salary lower bound for KindSalary.
	FloorLakhs float64
	// Level is the wanted bracket for KindExperience.
	Level Level
}

var levelPatterns = []struct {
	level Level
	re    *regexp.Regexp
}{
	{LevelEntry, regexp.MustCompile(`(?i)\b(entry|junior|fresher|freshers|trainee|graduate|internship|intern)\b|\b0\s*-\s*[12]\b`)},
	{LevelMid, regexp.MustCompile(`(?i)\b(mid|mid-level|intermediate|associate)\b|\b[23]\s*-\s*5\b`)},
	{LevelSenior, regexp.MustCompile(`(?i)\b(senior|experienced|lead|manager|principal|head)\b|\b[57]\s*\+`)},
}

var (
	windowRe       = regexp.MustCompile(`(?i)\b(\d+)\s*(hour|hr|day|week|month)s?\b`)
	yearWindowRe   = regexp.MustCompile(`(?i)\b(?:last|past|posted|within)\s+(?:(\d+)\s*)?(?:year|yr)s?\b`)
	dateWordRe     = regexp.MustCompile(`(?i)\b(last|past|posted|within|ago)\b`)
	recencyDefault = []struct {
		hours   float64
		phrases []string
	}{
		{24, []string{"today", "past day", "last day", "24h"}},
		{168, []string{"week"}},
		{720, []string{"month"}},
	}
	unitHours = map[string]float64{"hour": 1, "hr": 1, "day": 24, "week": 168, "month": 720}
)

const hoursPerYear = 8760

// salaryWordRe marks a phrase as salary related. Units may follow a digit
// directly, as in "12LPA".
var salaryWordRe = regexp.MustCompile(`(?i)\b(salary|ctc|package|pay)\b|(?:\b|\d)(lpa|lakhs?|lacs?)\b`)

// Classify maps a filter phrase to a predicate. Unrecognized phrases give
// KindNone, which keeps every record.
func Classify(phrase string) Predicate {
	p := Predicate{Kind: KindNone, Phrase: phrase}
	l := strings.ToLower(normalize.Clean(phrase))
	if l == "" {
		return p
	}

	if floor, ok := normalize.ParseSalaryFloor(l); ok {
		p.Kind, p.FloorLakhs = KindSalary, floor
		return p
	}
	if salaryWordRe.MatchString(l) {
		if floor, ok := normalize.ParseSalaryLakhs(l); ok {
			p.Kind, p.FloorLakhs = KindSalary, floor
			return p
		}
	}

	if m := windowRe.FindStringSubmatch(l); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			p.Kind, p.Hours = KindRecency, float64(n)*unitHours[m[2]]
			return p
		}
	}
	if m := yearWindowRe.FindStringSubmatch(l); m != nil {
		n := 1
		if m[1] != "" {
			n, _ = strconv.Atoi(m[1])
		}
		if n > 0 {
			p.Kind, p.Hours = KindRecency, float64(n)*hoursPerYear
			return p
		}
	}
	for _, w := range recencyDefault {
		if containsAny(l, w.phrases) {
			p.Kind, p.Hours = KindRecency, w.hours
			return p
		}
	}

	// A date phrase that was not understood above is not an experience range.
	if lo, _, ok := normalize.ParseExperienceYears(l); ok && !dateWordRe.MatchString(l) {
		p.Kind, p.Level = KindExperience, bracket(lo)
		return p
	}

	if normalize.IsRemote(l) {
		p.Kind = KindRemote
		return p
	}

	if levels := levelsIn(l); len(levels) > 0 {
		for _, lp := range levelPatterns {
			if levels[lp.level] {
				p.Kind, p.Level = KindExperience, lp.level
				return p
			}
		}
	}
	return p
}

// bracket places a minimum years-of-experience figure in a level.
func bracket(years int) Level {
	switch {
	case years < 2:
		return LevelEntry
	case years < 5:
		return LevelMid
	default:
		return LevelSenior
	}
}

func levelsIn(text string) map[Level]bool {
	levels := map[Level]bool{}
	for _, lp := range levelPatterns {
		if lp.re.MatchString(text) {
			levels[lp.level] = true
		}
	}
	return levels
}

// Engine applies filter phrases to job records.
type Engine struct {
	// Now is the clock used for recency filters. Nil means time.Now.
	Now func() time.Time
	log *zap.SugaredLogger
}

// New creates an engine using the wall clock.
func New(log *zap.SugaredLogger) *Engine {
	return &Engine{Now: time.Now, log: logging.Component(log, "filter")}
}

// Apply returns the records that pass every phrase. The input slice is not
// modified. Applying the same phrases again returns the same records.
func (e *Engine) Apply(jobs []types.JobRecord, phrases []string) []types.JobRecord {
	log := logging.OrNop(e.log)
	out := append([]types.JobRecord(nil), jobs...)
	for _, phrase := range phrases {
		p := Classify(phrase)
		if p.Kind == KindNone {
			log.Debugw("ignoring unrecognized filter", logging.FieldFilter, phrase)
			continue
		}
		kept := out[:0:0]
		for _, job := range out {
			if e.Matches(job, p) {
				kept = append(kept, job)
			}
		}
		log.Debugw("applied filter",
			logging.FieldFilter, phrase,
			"kind", string(p.Kind),
			"before", len(out),
			"after", len(kept))
		out = kept
	}
	return out
}

// Matches reports whether job passes p.
func (e *Engine) Matches(job types.JobRecord, p Predicate) bool {
	switch p.Kind {
	case KindRemote:
		return normalize.IsRemote(job.Get("title"), job.Get("description"), job.Get("location"))
	case KindRecency:
		return e.recent(job, p.Hours)
	case KindExperience:
		return matchesLevel(job, p.Level)
	case KindSalary:
		lakhs, ok := normalize.ParseSalaryLakhs(job.Get(types.SalaryFields...))
		return !ok || lakhs >= p.FloorLakhs
	default:
		return true
	}
}

func (e *Engine) recent(job types.JobRecord, maxHours float64) bool {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	for _, key := range types.DateFields {
		if hours, ok := normalize.ParseRelativeHours(job.Get(key), now()); ok {
			return hours <= maxHours
		}
	}
	return true
}

// matchesLevel keeps jobs in the wanted bracket and jobs with no level
// signal at all. An explicit experience_level wins over text in the title,
// description and experience fields.
func matchesLevel(job types.JobRecord, want Level) bool {
	levels := levelsIn(job.Get("experience_level"))
	if len(levels) == 0 {
		text := strings.Join([]string{job.Get("title"), job.Get("description"), job.Get("experience")}, " ")
		levels = levelsIn(text)
		if lo, _, ok := normalize.ParseExperienceYears(text); ok {
			levels[bracket(lo)] = true
		}
	}
	return len(levels) == 0 || levels[want]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
