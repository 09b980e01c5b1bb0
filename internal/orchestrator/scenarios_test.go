package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/fetch"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/scraper"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// offlineTiers fails every live tier with a network error and serves the
// real sample dataset.
func offlineTiers() Tiers {
	netErr := errors.New("dial tcp: connection refused")
	return Tiers{
		Lightweight: &fakeTier{name: types.TierLightweight, err: netErr},
		Dedicated:   &fakeTier{name: types.TierDedicated, err: netErr, handles: []string{"linkedin.com"}},
		Browser:     &fakeTier{name: types.TierBrowser, err: netErr},
		Static:      scraper.NewStatic(nil),
	}
}

func TestScenario_NaukriDataScientistMidLevel(t *testing.T) {
	out := New(offlineTiers(), Options{}).Run(context.Background(), &types.SearchPlan{
		Site: "naukri.com", SearchTerm: "Data Scientist", Location: "Mumbai",
		Filters: []string{"2-5 years"}, MaxJobs: 5,
	})

	require.NoError(t, out.Err)
	assert.Equal(t, types.TierStatic, out.Tier)
	require.NotEmpty(t, out.Jobs)
	assert.LessOrEqual(t, len(out.Jobs), 5)
	for _, j := range out.Jobs {
		assert.True(t, j.Valid(), j.Title())
	}
}

func TestScenario_FounditAIJobsPuneOffline(t *testing.T) {
	var out Outcome
	require.NotPanics(t, func() {
		out = New(offlineTiers(), Options{}).Run(context.Background(), &types.SearchPlan{
			Site: "foundit.in", SearchTerm: "AI jobs", Location: "Pune",
			Filters: []string{"Remote", "Last 7 days"}, MaxJobs: 15,
		})
	})

	require.NoError(t, out.Err)
	assert.Equal(t, types.TierStatic, out.Tier)
	require.NotEmpty(t, out.Jobs)
	for _, j := range out.Jobs {
		text := strings.ToLower(j.Title() + " " + j.Get("location"))
		assert.True(t, strings.Contains(text, "pune") || strings.Contains(text, "ai"), j.Title())
	}
	require.Len(t, out.Attempts, 3)
	for _, a := range out.Attempts[:2] {
		assert.Error(t, a.Err)
	}
}

const salaryPosting = `<html><head><script type="application/ld+json">
{"@context": "https://schema.org", "@type": "JobPosting",
 "title": "Data Scientist", "hiringOrganization": {"@type": "Organization", "name": "Flipkart"},
 "jobLocation": {"@type": "Place", "address": {"addressLocality": "Bangalore"}},
 "baseSalary": {"@type": "MonetaryAmount", "currency": "INR",
   "value": {"@type": "QuantitativeValue", "minValue": 10, "maxValue": 15, "unitText": "LPA"}}}
</script></head><body></body></html>`

func structuredTiers(t *testing.T) Tiers {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(salaryPosting))
	}))
	t.Cleanup(server.Close)

	light := scraper.NewLightweight(fetch.New(&fetch.Options{Timeout: 5 * time.Second}, nil), extraction.NewChain(nil, nil), nil)
	light.URLs = func(types.SearchPlan) []string { return []string{server.URL} }

	tiers := offlineTiers()
	tiers.Lightweight = light
	return tiers
}

func TestScenario_StructuredSalaryFilter(t *testing.T) {
	plan := func(filter string) *types.SearchPlan {
		return &types.SearchPlan{
			Site: "naukri.com", SearchTerm: "data scientist", Filters: []string{filter},
			Fields: []string{"title", "company", "location", "salary"},
		}
	}

	out := New(structuredTiers(t), Options{}).Run(context.Background(), plan("salary above 8 LPA"))
	require.NoError(t, out.Err)
	assert.Equal(t, types.TierLightweight, out.Tier)
	assert.Equal(t, extraction.MethodStructured, out.Method)
	require.Len(t, out.Jobs, 1)
	assert.Contains(t, out.Jobs[0]["salary"], "10")
	assert.Contains(t, out.Jobs[0]["salary"], "15")

	out = New(structuredTiers(t), Options{}).Run(context.Background(), plan("salary above 20 LPA"))
	require.NoError(t, out.Err)
	assert.Empty(t, out.Jobs)
	assert.Equal(t, StatusNoFilterMatches, out.Status)
}
