// Package config loads scraper settings from a JSON file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults used when neither the config file nor the environment sets a value.
const (
	DefaultMaxJobs           = 10
	DefaultRequestsPerSecond = 0.5
	DefaultTimeout           = "30s"
	DefaultMaxRetries        = 2
	DefaultPageCacheTTL      = "6h"
	DefaultLinkedInDetails   = 0
)

// Config is the scraper configuration. All fields are optional; CLI flags
// win over file values, which win over Default().
type Config struct {
	// Credentials and storage
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key for enhancement
	Model       string `json:"model,omitempty"`        // overrides the lite model name
	DatabaseURL string `json:"database_url,omitempty"` // enables page cache and run log

	// Selectors
	SelectorsPath string `json:"selectors_path,omitempty"` // YAML catalog replacing the embedded one

	// Fetching
	RequestsPerSecond float64  `json:"requests_per_second,omitempty" validate:"gte=0,lte=10"`
	Timeout           string   `json:"timeout,omitempty"`
	MaxRetries        int      `json:"max_retries,omitempty" validate:"gte=0,lte=10"`
	UserAgents        []string `json:"user_agents,omitempty" validate:"dive,required"`
	PageCacheTTL      string   `json:"page_cache_ttl,omitempty"`

	// Search defaults
	MaxJobs         int  `json:"max_jobs,omitempty" validate:"gte=0,lte=100"`
	LinkedInDetails int  `json:"linkedin_details,omitempty" validate:"gte=0,lte=100"`
	UseBrowser      bool `json:"use_browser,omitempty"`
	Enhance         bool `json:"enhance,omitempty"`
	Verbose         bool `json:"verbose,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RequestsPerSecond: DefaultRequestsPerSecond,
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
		PageCacheTTL:      DefaultPageCacheTTL,
		MaxJobs:           DefaultMaxJobs,
		LinkedInDetails:   DefaultLinkedInDetails,
		UseBrowser:        true,
	}
}

// Error is a configuration problem with one field.
type Error struct {
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// LoadConfig reads a JSON config file. Relative paths resolve against the
// working directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges, durations and referenced files.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &Error{Field: fe.Field(), Message: fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param()), Err: err}
		}
		return fmt.Errorf("config error: %w", err)
	}

	for _, d := range []struct {
		field, value string
	}{
		{"timeout", c.Timeout},
		{"page_cache_ttl", c.PageCacheTTL},
	} {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return &Error{Field: d.field, Message: "is not a duration", Err: err}
		}
		if v < 0 {
			return &Error{Field: d.field, Message: "must be non-negative"}
		}
	}

	if c.SelectorsPath != "" {
		if _, err := os.Stat(c.SelectorsPath); err != nil {
			return &Error{Field: "selectors_path", Message: fmt.Sprintf("file not found: %s", c.SelectorsPath), Err: err}
		}
	}
	return nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// MergeWithDefaults returns a copy of c with zero values taken from defaults.
// Booleans cannot tell unset from false and are kept from c only when true.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SelectorsPath == "" {
		result.SelectorsPath = defaults.SelectorsPath
	}
	if result.Timeout == "" {
		result.Timeout = defaults.Timeout
	}
	if result.PageCacheTTL == "" {
		result.PageCacheTTL = defaults.PageCacheTTL
	}
	if len(result.UserAgents) == 0 {
		result.UserAgents = defaults.UserAgents
	}

	if result.RequestsPerSecond == 0 {
		result.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.MaxJobs == 0 {
		result.MaxJobs = defaults.MaxJobs
	}
	if result.LinkedInDetails == 0 {
		result.LinkedInDetails = defaults.LinkedInDetails
	}

	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Enhance = result.Enhance || defaults.Enhance
	result.Verbose = result.Verbose || defaults.Verbose
	return result
}

// TimeoutDuration parses Timeout, returning 0 when unset or invalid.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// CacheTTL parses PageCacheTTL, returning 0 when unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.PageCacheTTL)
	return d
}
