// Package normalize cleans text scraped from job pages and parses the loose
// signals buried in it: salary amounts, experience ranges, relative dates and
// remote-work markers.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cleaner folds compatibility forms (nbsp, full-width digits, ligatures) and
// drops format characters such as zero-width spaces and BOMs.
var cleaner = transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.Cf)))

// Clean normalizes s and collapses every whitespace run to a single space.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(cleaner, s)
	if err != nil {
		out = s
	}
	out = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

// Lines splits s on newlines and returns the cleaned, non-empty lines.
func Lines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = Clean(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

// RemoteTerms mark a listing as remote when found in its text.
var RemoteTerms = []string{"remote", "work from home", "wfh", "virtual", "telecommute", "anywhere"}

// IsRemote reports whether any of texts mentions a remote-work term.
func IsRemote(texts ...string) bool {
	blob := strings.ToLower(strings.Join(texts, " "))
	for _, term := range RemoteTerms {
		if strings.Contains(blob, term) {
			return true
		}
	}
	return false
}

// CityKeywords are the cities recognized when inferring a card's location line.
var CityKeywords = []string{
	"mumbai", "delhi", "bangalore", "bengaluru", "hyderabad", "pune", "chennai",
	"kolkata", "noida", "gurgaon", "gurugram", "ahmedabad", "remote",
}

// HasCityKeyword reports whether line names a known city.
func HasCityKeyword(line string) bool {
	l := strings.ToLower(line)
	for _, c := range CityKeywords {
		if strings.Contains(l, c) {
			return true
		}
	}
	return false
}

var dateMarkers = []string{"posted", "ago", "day", "week", "month", "hour", "today", "yesterday", "just now"}

// LooksLikeDate reports whether line reads like a posting date ("Posted 3 days ago").
func LooksLikeDate(line string) bool {
	l := strings.ToLower(line)
	for _, m := range dateMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}
