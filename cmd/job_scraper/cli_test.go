package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/config"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/enhance"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/filter"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/orchestrator"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/scraper"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/selectors"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

func testApp() *app {
	return &app{cfg: config.Default(), log: logging.Nop(), catalog: selectors.Default()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildPlan_FromFlags(t *testing.T) {
	plan, err := buildPlan(searchFlags{
		site:     "naukri.com",
		term:     "Data Scientist",
		location: "Mumbai",
		filters:  []string{"2-5 years"},
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, "naukri.com", plan.Site)
	assert.Equal(t, "Data Scientist", plan.SearchTerm)
	assert.Equal(t, []string{"2-5 years"}, plan.Filters)
	assert.Equal(t, 10, plan.MaxJobs)
}

func TestBuildPlan_FromFile(t *testing.T) {
	path := writeFile(t, "plan.json", `{"site": "foundit.in", "search_term": "AI jobs", "location": "Pune", "filters": ["Remote", "Last 7 days"], "max_jobs": 5}`)

	plan, err := buildPlan(searchFlags{planFile: path}, 10)
	require.NoError(t, err)
	assert.Equal(t, "AI jobs", plan.SearchTerm)
	assert.Equal(t, 5, plan.MaxJobs)
	assert.Equal(t, []string{"Remote", "Last 7 days"}, plan.Filters)

	plan, err = buildPlan(searchFlags{planFile: path, maxJobs: 3}, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.MaxJobs, "--max wins over the file")
}

func TestBuildPlan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		flags   func(t *testing.T) searchFlags
		wantErr string
	}{
		{
			name:    "missing term",
			flags:   func(*testing.T) searchFlags { return searchFlags{site: "naukri.com"} },
			wantErr: "--term is required",
		},
		{
			name: "plan and term together",
			flags: func(t *testing.T) searchFlags {
				return searchFlags{planFile: writeFile(t, "p.json", `{"search_term": "go"}`), term: "go"}
			},
			wantErr: "cannot use --plan with --term",
		},
		{
			name: "plan file fails schema",
			flags: func(t *testing.T) searchFlags {
				return searchFlags{planFile: writeFile(t, "p.json", `{"site": "naukri.com"}`)}
			},
			wantErr: "failed to load plan",
		},
		{
			name:    "unknown field",
			flags:   func(*testing.T) searchFlags { return searchFlags{term: "go", fields: []string{"title", "bogus"}} },
			wantErr: "invalid search plan",
		},
		{
			name:    "too many jobs",
			flags:   func(*testing.T) searchFlags { return searchFlags{term: "go", maxJobs: 500} },
			wantErr: "invalid search plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildPlan(tt.flags(t), 10)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.json")
	outcome := orchestrator.Outcome{
		Plan:   types.SearchPlan{Site: "naukri.com", SearchTerm: "go", MaxJobs: 10},
		Jobs:   []types.JobRecord{{"title": "Go Developer", "company": "Flipkart"}},
		Tier:   types.TierLightweight,
		Method: extraction.MethodSelectors,
		Status: "extracted 1 jobs via lightweight (selectors)",
	}

	require.NoError(t, writeReport(path, outcome))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report orchestrator.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, types.TierLightweight, report.Tier)
	require.Len(t, report.Jobs, 1)
	assert.Equal(t, "Go Developer", report.Jobs[0]["title"])
}

func TestWriteReport_RejectsNonCanonicalJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	outcome := orchestrator.Outcome{
		Plan:   types.SearchPlan{Site: "naukri.com", SearchTerm: "go"},
		Jobs:   []types.JobRecord{{"title": "Go Developer", "link": "https://example.com"}},
		Tier:   types.TierLightweight,
		Method: extraction.MethodSelectors,
	}

	err := writeReport(path, outcome)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
	assert.NoFileExists(t, path)
}

func TestResultsFileName(t *testing.T) {
	assert.Equal(t, "naukri.results.json", resultsFileName("plans/naukri.json"))
	assert.Equal(t, "plan.results.json", resultsFileName("plan"))
}

func TestRunOptions(t *testing.T) {
	a := testApp()
	a.cfg.LinkedInDetails = 4

	ro := a.runOptions(false, false, -1)
	assert.True(t, ro.browser)
	assert.False(t, ro.enhance)
	assert.Equal(t, 4, ro.linkedInDetails)

	ro = a.runOptions(true, true, 0)
	assert.False(t, ro.browser)
	assert.True(t, ro.enhance)
	assert.Equal(t, 0, ro.linkedInDetails)

	a.cfg.UseBrowser = false
	assert.False(t, a.runOptions(false, false, -1).browser)
}

func TestTiers(t *testing.T) {
	a := testApp()

	tiers := a.tiers(runOptions{browser: true, linkedInDetails: 2})
	assert.NotNil(t, tiers.Lightweight)
	assert.NotNil(t, tiers.Browser)
	assert.NotNil(t, tiers.Static)
	require.NotNil(t, tiers.Dedicated)
	assert.True(t, tiers.Dedicated.Handles("linkedin.com"))
	assert.Equal(t, 2, tiers.Dedicated.(*scraper.LinkedIn).DetailLimit)

	assert.Nil(t, a.tiers(runOptions{}).Browser)
}

func TestFetchOptions(t *testing.T) {
	a := testApp()
	a.cfg.RequestsPerSecond = 2
	a.cfg.UserAgents = []string{"test-agent"}

	opts := a.fetchOptions(scraper.LinkedInFetchOptions())
	assert.Equal(t, a.cfg.TimeoutDuration(), opts.Timeout)
	assert.Equal(t, 2.0, opts.RequestsPerSecond)
	assert.Equal(t, []string{"test-agent"}, opts.UserAgents)
	assert.Equal(t, 3, opts.MaxRetries, "base retries are kept")
}

func TestEnhancer_WithoutAPIKey(t *testing.T) {
	a := testApp()

	enh, done, err := a.enhancer(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, enhance.Noop{}, enh)
	require.NotNil(t, done)
	done()

	enh, _, err = a.enhancer(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, enhance.Noop{}, enh)
}

func TestExtractFile(t *testing.T) {
	html := `<html><body>
<article class="jobTuple">
  <a class="title" href="/job-listings-go-developer-1">Go Developer</a>
  <span class="companyName">Flipkart</span>
  <span class="locWdth">Bangalore</span>
</article>
</body></html>`

	res := extractFile(extraction.NewChain(nil, nil), html, "naukri.com", 0)
	assert.Equal(t, extraction.MethodSelectors, res.Method)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "Go Developer", res.Jobs[0]["title"])
	assert.Equal(t, "https://www.naukri.com/job-listings-go-developer-1", res.Jobs[0]["job_url"])

	res = extractFile(extraction.NewChain(nil, nil), "<html><body></body></html>", "naukri.com", 5)
	assert.NotNil(t, res.Jobs)
	assert.Empty(t, res.Jobs)
}

func TestMatchSamples(t *testing.T) {
	static := scraper.NewStatic(nil)
	engine := filter.New(nil)

	jobs := matchSamples(static, engine, searchFlags{site: "naukri.com", term: "developer", location: "Noida", maxJobs: 10})
	require.Len(t, jobs, 1)
	assert.Equal(t, "iOS Developer", jobs[0].Title())
	for key := range jobs[0] {
		assert.Contains(t, types.CanonicalKeys(), key)
	}

	remote := matchSamples(static, engine, searchFlags{site: "naukri.com", filters: []string{"Remote"}, maxJobs: 100})
	titles := make([]string, len(remote))
	for i, j := range remote {
		titles[i] = j.Title()
	}
	assert.Contains(t, titles, "Remote Content Writer")
	assert.NotContains(t, titles, "Java Developer")
}

func TestCLI_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"search without term", []string{"search", "--no-browser"}, "--term is required"},
		{"extract without input", []string{"extract", "--site", "naukri.com"}, "required"},
		{"batch without plans", []string{"batch", "--out-dir", "out"}, "requires at least 1 arg"},
		{"runs without database", []string{"runs"}, "database URL is required"},
		{"runs with bad id", []string{"runs", "--run-id", "not-a-uuid"}, "invalid run ID"},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			cmd.Env = append(os.Environ(), config.EnvDatabaseURL+"=", config.EnvConfigPath+"=")
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

func TestCLI_OfflineCommands(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "sites").CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "SUPPORTED SITES")
	assert.Contains(t, string(output), "naukri.com")

	output, err = exec.Command(binaryPath, "samples", "--site", "naukri.com", "--term", "developer", "--location", "Noida").CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "iOS Developer")

	html := writeFile(t, "page.html", `<html><body><article class="jobTuple"><a class="title" href="/j-1">Go Developer</a><span class="companyName">Flipkart</span></article></body></html>`)
	output, err = exec.Command(binaryPath, "extract", "--in", html, "--site", "naukri.com", "--json").CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), `"title": "Go Developer"`)
}
