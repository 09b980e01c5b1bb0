package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses whitespace", "  Senior\t\tGo   Engineer \n", "Senior Go Engineer"},
		{"nbsp", "Pune,\u00a0Maharashtra", "Pune, Maharashtra"},
		{"zero width", "Data\u200bScientist", "DataScientist"},
		{"full width digits", "\uff11\uff15 LPA", "15 LPA"},
		{"control chars", "a\x00b", "a b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestLines(t *testing.T) {
	got := Lines("Data Scientist\n\n   Amazon  \nBangalore\n ")
	assert.Equal(t, []string{"Data Scientist", "Amazon", "Bangalore"}, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("Remote React.js Developer", ""))
	assert.True(t, IsRemote("", "Work From Home opportunity"))
	assert.True(t, IsRemote("Engineer", "", "Anywhere in India"))
	assert.False(t, IsRemote("DevOps Engineer", "Pune, Maharashtra"))
}

func TestHasCityKeywordAndLooksLikeDate(t *testing.T) {
	assert.True(t, HasCityKeyword("Pune, Maharashtra"))
	assert.False(t, HasCityKeyword("Infosys"))
	assert.True(t, LooksLikeDate("Posted 3 days ago"))
	assert.True(t, LooksLikeDate("Today"))
	assert.False(t, LooksLikeDate("Infosys"))
}

func TestParseSalaryLakhs(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"15 LPA", 15, true},
		{"1500k", 15, true},
		{"10-15 LPA", 10, true},
		{"INR 10-15 LPA", 10, true},
		{"₹ 8 Lakhs - 12 Lakhs", 8, true},
		{"1.5 Cr", 150, true},
		{"500k-800k", 5, true},
		{"2-5 years, 12 LPA", 12, true},
		{"₹12,00,000 per annum", 12, true},
		{"Not disclosed", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSalaryLakhs(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestSalaryNormalizationRoundTrip(t *testing.T) {
	lpa, ok := ParseSalaryLakhs("15 LPA")
	assert.True(t, ok)
	thousands, ok := ParseSalaryLakhs("1500k")
	assert.True(t, ok)
	assert.Equal(t, lpa, thousands)

	floorLPA, ok := ParseSalaryFloor("salary above 15 LPA")
	assert.True(t, ok)
	floorK, ok := ParseSalaryFloor("salary above 1500k")
	assert.True(t, ok)
	assert.Equal(t, floorLPA, floorK)
	assert.Equal(t, 15.0, floorLPA)
}

func TestParseSalaryFloor(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"salary above 10LPA", 10, true},
		{"Salary > 8 lakh", 8, true},
		{"compensation more than 1 crore", 100, true},
		{"above 50k", 0.5, true},
		{"salary at least 12 L", 12, true},
		{"10+ LPA", 10, true},
		{"1.5+ Cr", 150, true},
		{"7+ years", 0, false},
		{"Remote", 0, false},
		{"salary above average", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSalaryFloor(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestParseExperienceYears(t *testing.T) {
	tests := []struct {
		input    string
		min, max int
		ok       bool
	}{
		{"2-5 years", 2, 5, true},
		{"3 to 6 Yrs", 3, 6, true},
		{"5+ years", 5, OpenEnded, true},
		{"1 year", 1, 1, true},
		{"8-4 yrs", 4, 8, true},
		{"Fresher", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lo, hi, ok := ParseExperienceYears(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.min, lo)
			assert.Equal(t, tt.max, hi)
		})
	}
}

func TestParseRelativeHours(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"Just now", 0, true},
		{"Posted today", 0, true},
		{"Posted yesterday", 24, true},
		{"Posted 3 days ago", 72, true},
		{"5 hours ago", 5, true},
		{"1 week ago", 168, true},
		{"2 months ago", 1440, true},
		{"30+ Days Ago", 720, true},
		{"an hour ago", 1, true},
		{"30 minutes ago", 0.5, true},
		{"2 years ago", 17520, true},
		{"a year ago", 8760, true},
		{"2026-10-18", 36, true},
		{"2026-10-19T06:00:00Z", 6, true},
		{"2026-12-01", 0, true},
		{"Few days back", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRelativeHours(tt.input, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}
