package extraction

import (
	"unicode/utf8"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/normalize"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// Length bounds for positional inference, in runes.
const (
	maxTitleLen   = 200
	maxCompanyLen = 50
	maxShortLine  = 30
)

// inferFields fills title, company, location and date from a card's text
// lines wherever selectors left them empty: the first line is the title, a
// short second line the company, and short lines naming a city or reading
// like a posting date become location and date.
func inferFields(job types.JobRecord, lines []string) {
	if len(lines) == 0 {
		return
	}

	titleIdx := -1
	if job.Title() == "" {
		if utf8.RuneCountInString(lines[0]) <= maxTitleLen {
			job["title"] = lines[0]
			titleIdx = 0
		}
	} else if lines[0] == job.Title() {
		titleIdx = 0
	}

	if job.Get("company") == "" && len(lines) > 1 {
		second := lines[1]
		if utf8.RuneCountInString(second) < maxCompanyLen &&
			second != job.Title() &&
			!normalize.HasCityKeyword(second) &&
			!normalize.LooksLikeDate(second) {
			job["company"] = second
		}
	}

	needLocation := job.Get("location") == ""
	needDate := job.Get(types.DateFields...) == ""
	for i, line := range lines {
		if !needLocation && !needDate {
			break
		}
		if i == titleIdx || utf8.RuneCountInString(line) >= maxShortLine {
			continue
		}
		switch {
		case needLocation && normalize.HasCityKeyword(line):
			job["location"] = line
			needLocation = false
		case needDate && normalize.LooksLikeDate(line):
			job["date_posted"] = line
			needDate = false
		}
	}
}
