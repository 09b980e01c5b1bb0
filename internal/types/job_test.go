package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobRecord_Valid(t *testing.T) {
	tests := []struct {
		name string
		job  JobRecord
		want bool
	}{
		{"title and company", JobRecord{"title": "Go Developer", "company": "Acme"}, true},
		{"title only", JobRecord{"title": "Go Developer"}, false},
		{"title with blank company", JobRecord{"title": "Go Developer", "company": "  "}, false},
		{"title with source only", JobRecord{"title": "Go Developer", "source": "naukri.com"}, false},
		{"no title", JobRecord{"company": "Acme", "location": "Pune"}, false},
		{"blank title", JobRecord{"title": " ", "company": "Acme"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.job.Valid())
		})
	}
}

func TestJobRecord_GetTriesSynonyms(t *testing.T) {
	job := JobRecord{"date": "Posted 3 days ago", "posted_date": " "}
	assert.Equal(t, "Posted 3 days ago", job.Get(DateFields...))

	job["date_posted"] = "2026-10-01"
	assert.Equal(t, "2026-10-01", job.Get(DateFields...))

	assert.Empty(t, job.Get("salary", "salary_range"))
}

func TestJobRecord_Clone(t *testing.T) {
	orig := JobRecord{"title": "A"}
	c := orig.Clone()
	c["title"] = "B"
	assert.Equal(t, "A", orig["title"])
}

func TestCanonicalize(t *testing.T) {
	job := JobRecord{
		"title":        "Data Scientist",
		"company":      "Amazon",
		"date":         "Posted 2 days ago",
		"link":         "https://www.foundit.in/job/1",
		"salary_range": "10-15 LPA",
		"internal_id":  "x1",
		"location":     "",
	}

	got := Canonicalize(job)

	assert.Equal(t, JobRecord{
		"title":       "Data Scientist",
		"company":     "Amazon",
		"date_posted": "Posted 2 days ago",
		"job_url":     "https://www.foundit.in/job/1",
		"salary":      "10-15 LPA",
	}, got)
}

func TestCanonicalize_PrefersHigherPrioritySynonym(t *testing.T) {
	job := JobRecord{"title": "X", "job_url": "https://a", "link": "https://b", "url": "https://c"}
	assert.Equal(t, "https://a", Canonicalize(job)["job_url"])
}

func TestProject(t *testing.T) {
	job := JobRecord{
		"title":       "Data Scientist",
		"company":     "Amazon",
		"location":    "Mumbai",
		"date_posted": "Posted 2 days ago",
		"job_url":     "https://www.foundit.in/job/1",
		"salary":      "10-15 LPA",
		"description": "Build models.",
		"skills":      "Python, SQL",
	}

	assert.Equal(t, JobRecord{
		"title":   "Data Scientist",
		"company": "Amazon",
		"salary":  "10-15 LPA",
		"skills":  "Python, SQL",
	}, Project(job, []string{"company", "salary"}))

	assert.Equal(t, job, Project(job, nil))
	assert.Len(t, Project(job, DefaultFields), 6)
}

func TestProject_KeepsRecordValid(t *testing.T) {
	job := JobRecord{"title": "Data Scientist", "company": "Amazon"}
	assert.Equal(t, job, Project(job, []string{"salary"}))
	assert.Equal(t, job, Project(job, []string{"title"}))
}
