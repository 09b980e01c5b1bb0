package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeRe    = regexp.MustCompile(`(?i)(\d+)\+?\s*(minute|min|hour|hr|day|week|month|year|yr)s?\s*ago`)
	relativeOneRe = regexp.MustCompile(`(?i)\b(?:a|an|one)\s+(minute|hour|day|week|month|year)\s+ago`)
	isoDateRe     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})(?:[T ][0-9:.]+(?:Z|[+-]\d{2}:?\d{2})?)?`)
)

// unitHours maps a relative-date unit to hours. Months are 30 days and
// years 365.
func unitHours(unit string) float64 {
	switch strings.ToLower(unit) {
	case "minute", "min":
		return 1.0 / 60
	case "hour", "hr":
		return 1
	case "day":
		return 24
	case "week":
		return 168
	case "month":
		return 720
	case "year", "yr":
		return 8760
	}
	return 0
}

// ParseRelativeHours converts a posting-date text into hours elapsed since now.
// It understands "just now", "today", "yesterday", "<n> <unit>s ago" and ISO
// dates. The boolean is false when nothing in the text could be read.
func ParseRelativeHours(text string, now time.Time) (float64, bool) {
	l := strings.ToLower(Clean(text))
	if l == "" {
		return 0, false
	}

	switch {
	case strings.Contains(l, "just now"), strings.Contains(l, "today"),
		strings.Contains(l, "few hours"), strings.Contains(l, "just posted"):
		return 0, true
	case strings.Contains(l, "yesterday"):
		return 24, true
	}

	if m := relativeRe.FindStringSubmatch(l); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return float64(n) * unitHours(m[2]), true
		}
	}
	if m := relativeOneRe.FindStringSubmatch(l); m != nil {
		return unitHours(m[1]), true
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(m[0])); err == nil {
			return clampHours(now.Sub(t)), true
		}
		if t, err := time.ParseInLocation("2006-01-02", m[1], now.Location()); err == nil {
			return clampHours(now.Sub(t)), true
		}
	}
	return 0, false
}

// Future dates count as just posted.
func clampHours(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return d.Hours()
}
