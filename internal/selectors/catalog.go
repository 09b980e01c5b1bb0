// Package selectors holds the per-site CSS selector tables used by the
// selector-based extraction tier. The tables are data: the built-in catalog is
// embedded YAML and can be replaced from a file without touching extraction code.
package selectors

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Field names used in selector tables.
const (
	FieldJobCard     = "job_card"
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldLocation    = "location"
	FieldDate        = "date"
	FieldDescription = "description"
	FieldSalary      = "salary"
	FieldExperience  = "experience"
	FieldJobURL      = "job_url"
)

// RecordFields lists the selector fields copied into a job record, in extraction order.
var RecordFields = []string{
	FieldTitle, FieldCompany, FieldLocation, FieldDate,
	FieldDescription, FieldSalary, FieldExperience,
}

// Site is the resolved selector configuration for one job portal.
type Site struct {
	Key       string
	BaseURL   string
	Selectors types.SelectorSet
	// Detail holds selectors for a single job page of the site.
	Detail types.SelectorSet
}

// Candidates returns the ordered selectors for a field.
func (s Site) Candidates(field string) []string {
	return s.Selectors[field]
}

// DetailCandidates returns the ordered job page selectors for a field.
func (s Site) DetailCandidates(field string) []string {
	return s.Detail[field]
}

type siteFile struct {
	BaseURL   string              `yaml:"base_url"`
	Selectors map[string][]string `yaml:"selectors"`
	Detail    map[string][]string `yaml:"detail"`
}

type catalogFile struct {
	DefaultSite       string              `yaml:"default_site"`
	Sites             map[string]siteFile `yaml:"sites"`
	GenericCards      []string            `yaml:"generic_cards"`
	GenericFields     map[string][]string `yaml:"generic_fields"`
	DetailDescription []string            `yaml:"detail_description"`
}

// Catalog maps site identifiers to selector sets. It is never mutated after
// construction; lookups hand out copies.
type Catalog struct {
	defaultSite       string
	sites             map[string]siteFile
	genericCards      []string
	genericFields     map[string][]string
	detailDescription []string
}

// Default returns the built-in catalog. It panics if the embedded YAML is
// broken, which is a build defect.
func Default() *Catalog {
	c, err := Parse(builtinCatalog)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in selector catalog: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selector catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse selector catalog: %w", err)
	}
	if len(f.Sites) == 0 {
		return nil, fmt.Errorf("selector catalog defines no sites")
	}

	sites := make(map[string]siteFile, len(f.Sites))
	for key, s := range f.Sites {
		if len(s.Selectors[FieldJobCard]) == 0 {
			return nil, fmt.Errorf("site %q has no %s selectors", key, FieldJobCard)
		}
		sites[types.NormalizeSite(key)] = s
	}

	def := types.NormalizeSite(f.DefaultSite)
	if def == "" {
		def = types.DefaultSite
	}
	if _, ok := sites[def]; !ok {
		return nil, fmt.Errorf("default site %q is not defined", def)
	}

	return &Catalog{
		defaultSite:       def,
		sites:             sites,
		genericCards:      f.GenericCards,
		genericFields:     f.GenericFields,
		detailDescription: f.DetailDescription,
	}, nil
}

// DefaultSite returns the site used for unknown identifiers.
func (c *Catalog) DefaultSite() string {
	return c.defaultSite
}

// Sites returns the configured site keys, sorted.
func (c *Catalog) Sites() []string {
	keys := make([]string, 0, len(c.sites))
	for k := range c.sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the catalog has a dedicated table for site.
func (c *Catalog) Has(site string) bool {
	_, ok := c.match(types.NormalizeSite(site))
	return ok
}

// Lookup resolves the selectors for a site identifier or URL, falling back to
// the default site when the identifier is unknown. When site is a full URL its
// origin becomes the base URL for link resolution.
func (c *Catalog) Lookup(site string) Site {
	key, ok := c.match(types.NormalizeSite(site))
	if !ok {
		key = c.defaultSite
	}
	s := c.sites[key]

	out := Site{
		Key:       key,
		BaseURL:   s.BaseURL,
		Selectors: copySet(s.Selectors),
		Detail:    copySet(s.Detail),
	}
	if origin := originOf(site); origin != "" {
		out.BaseURL = origin
	}
	return out
}

// GenericCards returns the card selectors tried after a site's own job_card list.
func (c *Catalog) GenericCards() []string {
	return append([]string(nil), c.genericCards...)
}

// GenericField returns the cross-site alternative selectors for a field.
func (c *Catalog) GenericField(field string) []string {
	return append([]string(nil), c.genericFields[field]...)
}

// DetailDescription returns the description selectors for a job page of
// site: the site's own list followed by the cross-site list.
func (c *Catalog) DetailDescription(site string) []string {
	return concat(c.Lookup(site).DetailCandidates(FieldDescription), c.detailDescription)
}

func copySet(in map[string][]string) types.SelectorSet {
	out := make(types.SelectorSet, len(in))
	for field, list := range in {
		out[field] = append([]string(nil), list...)
	}
	return out
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// match finds a site key equal to host or contained in it ("in.indeed.com" -> "indeed.com").
func (c *Catalog) match(host string) (string, bool) {
	if host == "" {
		return "", false
	}
	if _, ok := c.sites[host]; ok {
		return host, true
	}
	for _, key := range c.Sites() {
		name := strings.SplitN(key, ".", 2)[0]
		if strings.HasSuffix(host, "."+key) || strings.Contains(host, name) {
			return key, true
		}
	}
	return "", false
}

func originOf(site string) string {
	if !strings.Contains(site, "://") {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(site))
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
