package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// unitPattern matches salary units. Longer alternatives come first so "lpa"
// is not read as "l".
const unitPattern = `(k|lpa|lakhs?|lacs?|l|crores?|cr)`

var (
	salaryRangeRe  = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*` + unitPattern + `?\s*(?:-|–|to)\s*(\d[\d,]*(?:\.\d+)?)\s*` + unitPattern + `\b`)
	salarySingleRe = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*` + unitPattern + `\b`)
	salaryRupeesRe = regexp.MustCompile(`(?i)(?:₹|inr|rs\.?)\s*(\d[\d,]{4,})`)
	salaryFloorRe  = regexp.MustCompile(`(?i)(?:salary|compensation|ctc|pay)?\s*(>=|>|above|over|more than|greater than|at least|minimum|min)\s*(?:of\s*)?(?:₹|inr|rs\.?)?\s*(\d+(?:\.\d+)?)\s*` + unitPattern + `\b`)
	salaryPlusRe   = regexp.MustCompile(`(?i)(?:₹|inr|rs\.?)?\s*(\d+(?:\.\d+)?)\s*\+\s*` + unitPattern + `\b`)
)

// ToLakhs converts amount in unit to lakhs. Thousands divide by 100 and crores
// multiply by 100; lakh-style units pass through.
func ToLakhs(amount float64, unit string) float64 {
	switch u := strings.ToLower(unit); {
	case u == "k":
		return amount / 100
	case strings.HasPrefix(u, "cr"):
		return amount * 100
	default:
		return amount
	}
}

// ParseSalaryLakhs extracts the lower bound of a salary text in lakhs.
// "10-15 LPA" gives 10, "1500k" and "15 LPA" both give 15.
func ParseSalaryLakhs(text string) (float64, bool) {
	if m := salaryRangeRe.FindStringSubmatch(text); m != nil {
		unit := m[2]
		if unit == "" {
			unit = m[4]
		}
		if v, ok := parseAmount(m[1]); ok {
			return ToLakhs(v, unit), true
		}
	}
	if m := salarySingleRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return ToLakhs(v, m[2]), true
		}
	}
	if m := salaryRupeesRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return v / 100000, true
		}
	}
	return 0, false
}

// ParseSalaryFloor reads a minimum-salary filter phrase such as
// "salary above 10LPA" or "10+ LPA" and returns the floor in lakhs.
func ParseSalaryFloor(phrase string) (float64, bool) {
	amount, unit := "", ""
	if m := salaryFloorRe.FindStringSubmatch(phrase); m != nil {
		amount, unit = m[2], m[3]
	} else if m := salaryPlusRe.FindStringSubmatch(phrase); m != nil {
		amount, unit = m[1], m[2]
	} else {
		return 0, false
	}
	v, ok := parseAmount(amount)
	if !ok {
		return 0, false
	}
	return ToLakhs(v, unit), true
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
