package selectors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasSupportedSites(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"foundit.in", "indeed.com", "linkedin.com", "naukri.com"}, c.Sites())
	assert.Equal(t, "foundit.in", c.DefaultSite())
	assert.NotEmpty(t, c.GenericCards())
	assert.NotEmpty(t, c.GenericField(FieldTitle))
}

func TestLookup(t *testing.T) {
	c := Default()

	tests := []struct {
		site     string
		wantKey  string
		wantBase string
	}{
		{"naukri.com", "naukri.com", "https://www.naukri.com"},
		{"www.indeed.com", "indeed.com", "https://www.indeed.com"},
		{"in.indeed.com", "indeed.com", "https://www.indeed.com"},
		{"https://in.indeed.com/jobs?q=go", "indeed.com", "https://in.indeed.com"},
		{"LinkedIn", "linkedin.com", "https://www.linkedin.com"},
		{"monster.com", "foundit.in", "https://www.foundit.in"},
		{"", "foundit.in", "https://www.foundit.in"},
	}

	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			s := c.Lookup(tt.site)
			assert.Equal(t, tt.wantKey, s.Key)
			assert.Equal(t, tt.wantBase, s.BaseURL)
			assert.NotEmpty(t, s.Candidates(FieldJobCard))
		})
	}
}

func TestLookup_ReturnsCopies(t *testing.T) {
	c := Default()
	s := c.Lookup("naukri.com")
	s.Selectors[FieldTitle][0] = "mutated"

	again := c.Lookup("naukri.com")
	assert.Equal(t, ".title", again.Candidates(FieldTitle)[0])
}

func TestLookup_DetailSelectors(t *testing.T) {
	c := Default()

	s := c.Lookup("https://www.linkedin.com/jobs/view/1")
	assert.Equal(t, []string{"h1.top-card-layout__title", "h1.topcard__title"}, s.DetailCandidates(FieldTitle))
	assert.NotEmpty(t, s.DetailCandidates(FieldCompany))

	desc := c.DetailDescription("linkedin.com")
	require.NotEmpty(t, desc)
	assert.Equal(t, ".show-more-less-html__markup", desc[0])
	assert.Equal(t, "article", desc[len(desc)-1])

	// Sites without their own description list still get the cross-site one.
	s = c.Lookup("monster.com")
	assert.Equal(t, "foundit.in", s.Key)
	assert.Contains(t, c.DetailDescription("naukri.com"), ".job-description")
}

func TestHas(t *testing.T) {
	c := Default()
	assert.True(t, c.Has("naukri.com"))
	assert.False(t, c.Has("monster.com"))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("sites: {}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sites")

	_, err = Parse([]byte("default_site: a.com\nsites:\n  b.com:\n    selectors:\n      job_card: [\".x\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default site")

	_, err = Parse([]byte("sites:\n  foundit.in:\n    selectors:\n      title: [\"h3\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job_card")

	_, err = Parse([]byte("sites: [oops"))
	require.Error(t, err)
}

func TestLoadFile_OverridesBuiltin(t *testing.T) {
	content := `
default_site: example.com
sites:
  example.com:
    base_url: https://jobs.example.com
    selectors:
      job_card: [".posting"]
      title: [".posting-title"]
    detail:
      title: [".posting-header h1"]
      description: [".posting-body"]
detail_description: ["main"]
`
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	s := c.Lookup("anything")
	assert.Equal(t, "example.com", s.Key)
	assert.Equal(t, []string{".posting"}, s.Candidates(FieldJobCard))
	assert.Equal(t, []string{".posting-header h1"}, s.DetailCandidates(FieldTitle))
	assert.Empty(t, c.GenericCards())
	assert.Equal(t, []string{".posting-body", "main"}, c.DetailDescription("example.com"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/selectors.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read selector catalog")
}
