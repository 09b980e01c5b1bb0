package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by FromEnv.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvDatabaseURL  = "DATABASE_URL"
	EnvConfigPath   = "JOB_SCRAPER_CONFIG"
	EnvSelectors    = "JOB_SCRAPER_SELECTORS"
	EnvRPS          = "JOB_SCRAPER_RPS"
	EnvMaxJobs      = "JOB_SCRAPER_MAX_JOBS"
	EnvLinkedInDets = "JOB_SCRAPER_LINKEDIN_DETAILS"
)

// FromEnv builds a Config from the environment. Unset variables leave zero
// values so the result can be merged like a config file.
func FromEnv() (Config, error) {
	cfg := Config{
		APIKey:        os.Getenv(EnvAPIKey),
		DatabaseURL:   os.Getenv(EnvDatabaseURL),
		SelectorsPath: os.Getenv(EnvSelectors),
	}

	if v := os.Getenv(EnvRPS); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a number: %w", EnvRPS, err)
		}
		cfg.RequestsPerSecond = rps
	}
	if v := os.Getenv(EnvMaxJobs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be an integer: %w", EnvMaxJobs, err)
		}
		cfg.MaxJobs = n
	}
	if v := os.Getenv(EnvLinkedInDets); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be an integer: %w", EnvLinkedInDets, err)
		}
		cfg.LinkedInDetails = n
	}
	return cfg, nil
}

// Resolve layers the config file named by path (or $JOB_SCRAPER_CONFIG),
// then the environment, over Default(). The file layer and the final
// result are validated separately.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	base := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		base = fileCfg.MergeWithDefaults(base)
		if err := base.Validate(); err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	env, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg := env.MergeWithDefaults(base)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
