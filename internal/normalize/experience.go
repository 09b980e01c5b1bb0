package normalize

import (
	"regexp"
	"strconv"
)

var (
	expRangeRe  = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:-|–|to)\s*(\d{1,2})\s*(?:\+\s*)?(?:years?|yrs?)`)
	expPlusRe   = regexp.MustCompile(`(?i)(\d{1,2})\s*\+\s*(?:years?|yrs?)`)
	expSingleRe = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:years?|yrs?)`)
)

// OpenEnded is the max returned for "5+ years" style ranges.
const OpenEnded = 99

// ParseExperienceYears reads an experience range such as "2-5 years",
// "3+ yrs" or "1 year". Open-ended ranges report OpenEnded as max.
func ParseExperienceYears(text string) (minYears, maxYears int, ok bool) {
	if m := expRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			lo, hi = hi, lo
		}
		return lo, hi, true
	}
	if m := expPlusRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		return lo, OpenEnded, true
	}
	if m := expSingleRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, n, true
	}
	return 0, 0, false
}
