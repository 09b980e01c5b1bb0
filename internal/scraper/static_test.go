package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

func titles(jobs []types.JobRecord) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title()
	}
	return out
}

func TestStatic_DatasetIsValid(t *testing.T) {
	all := NewStatic(nil).All()
	require.Len(t, all, 24)
	for _, j := range all {
		assert.True(t, j.Valid(), j.Title())
		assert.NotEmpty(t, j.Get(types.LinkFields...), j.Title())
		assert.NotEmpty(t, j.Get(types.DateFields...), j.Title())
	}
}

func TestStatic_Match(t *testing.T) {
	s := NewStatic(nil)

	tests := []struct {
		name string
		plan types.SearchPlan
		want []string
	}{
		{
			name: "title words",
			plan: types.SearchPlan{Site: "foundit.in", SearchTerm: "Data Scientist", MaxJobs: 10},
			want: []string{"Data Scientist"},
		},
		{
			name: "description words",
			plan: types.SearchPlan{Site: "naukri.com", SearchTerm: "spring boot", MaxJobs: 10},
			want: []string{"Java Developer"},
		},
		{
			name: "location narrows",
			plan: types.SearchPlan{Site: "naukri.com", SearchTerm: "developer", Location: "Noida", MaxJobs: 10},
			want: []string{"iOS Developer"},
		},
		{
			name: "unmatched term and location are relaxed",
			plan: types.SearchPlan{Site: "foundit.in", SearchTerm: "AI jobs", Location: "Pune", MaxJobs: 10},
			want: []string{"DevOps Engineer"},
		},
		{
			name: "linkedin samples",
			plan: types.SearchPlan{Site: "linkedin.com", SearchTerm: "scientist", MaxJobs: 10},
			want: []string{"Data Scientist", "AI Research Scientist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(s.Match(tt.plan)))
		})
	}
}

func TestStatic_SiteIsStrict(t *testing.T) {
	for _, j := range NewStatic(nil).Match(types.SearchPlan{Site: "naukri.com", SearchTerm: "Data Scientist", Location: "Mumbai", MaxJobs: 10}) {
		assert.Equal(t, "naukri.com", j["source"])
	}
}

func TestStatic_KnownSiteWithoutSamplesIsEmpty(t *testing.T) {
	s := &Static{jobs: []types.JobRecord{
		{"title": "Java Developer", "company": "Infosys", "source": "naukri.com"},
		{"title": "Go Developer", "company": "Razorpay", "source": "foundit.in"},
	}}

	assert.Empty(t, s.Match(types.SearchPlan{Site: "indeed.com", SearchTerm: "developer", MaxJobs: 10}))
	assert.Equal(t, []string{"Java Developer"}, titles(s.Match(types.SearchPlan{Site: "naukri.com", MaxJobs: 10})))
	assert.Len(t, s.Match(types.SearchPlan{Site: "monster.com", MaxJobs: 10}), 2)
}

func TestStatic_TruncatesAndRelaxes(t *testing.T) {
	s := NewStatic(nil)

	assert.Len(t, s.Match(types.SearchPlan{Site: "indeed.com", SearchTerm: "zzz", MaxJobs: 3}), 3)
	assert.Len(t, s.Match(types.SearchPlan{Site: "monster.com", SearchTerm: "zzz", Location: "Atlantis", MaxJobs: 100}), 24)
	assert.NotEmpty(t, s.Match(types.SearchPlan{}))
}

func TestStatic_ReturnsCopies(t *testing.T) {
	s := NewStatic(nil)
	plan := types.SearchPlan{Site: "foundit.in", SearchTerm: "DevOps", MaxJobs: 1}

	first := s.Match(plan)
	first[0]["title"] = "changed"
	assert.Equal(t, "DevOps Engineer", s.Match(plan)[0].Title())
}

func TestStatic_Scrape(t *testing.T) {
	res := NewStatic(nil).Scrape(context.Background(), types.SearchPlan{Site: "indeed.com", SearchTerm: "remote", MaxJobs: 5})
	require.NoError(t, res.Err)
	assert.Equal(t, types.TierStatic, res.Tier)
	assert.Equal(t, extraction.MethodStatic, res.Method)
	assert.Equal(t, []string{"Remote Project Manager", "Remote UX/UI Designer"}, titles(res.Jobs))
}

func TestParseSamples_Errors(t *testing.T) {
	_, err := parseSamples([]byte("not json"))
	assert.Error(t, err)
	_, err = parseSamples([]byte("[]"))
	assert.Error(t, err)
	_, err = parseSamples([]byte(`[{"title": "Only a title"}]`))
	assert.Error(t, err)
}
