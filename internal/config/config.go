// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package config handles .plaintes.yaml configuration files, the global
// config, environment overrides and the stored API token.
package config

import "time"

// Config represents the contents of a .plaintes.yaml file.
type Config struct {
	BackendURL string `yaml:"backend_url,omitempty"`
	NLPURL     string `yaml:"nlp_url,omitempty"`
	Lang       string `yaml:"lang,omitempty"`

	// Range is the default period token for stats and export.
	Range string `yaml:"range,omitempty"`
	TopN  int    `yaml:"top_n,omitempty"`

	OutputFormat string   `yaml:"output_format,omitempty"`
	Sections     []string `yaml:"sections,omitempty"`

	Timeout     string `yaml:"timeout,omitempty"`
	MinInterval string `yaml:"min_interval,omitempty"`
	Retries     *int   `yaml:"retries,omitempty"`

	NoLLM    bool   `yaml:"no_llm,omitempty"`
	LLMModel string `yaml:"llm_model,omitempty"`

	Watch  WatchConfig  `yaml:"watch,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`

	// Token comes from PLAINTES_TOKEN or the credentials file, never from
	// a config file.
	Token string `yaml:"-"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Interval string `yaml:"interval,omitempty"`
}

// ExportConfig configures file exports.
type ExportConfig struct {
	Dir          string `yaml:"dir,omitempty"`
	ImageTimeout string `yaml:"image_timeout,omitempty"`
	Placeholder  string `yaml:"placeholder,omitempty"`
}

// FileName is the config file looked up in the working directory.
const FileName = ".plaintes.yaml"

// Defaults applied by the accessors when a field is unset.
const (
	DefaultBackendURL    = "http://localhost:8080/api"
	DefaultNLPURL        = "http://localhost:8000"
	DefaultRange         = "30d"
	DefaultTimeout       = 30 * time.Second
	DefaultMinInterval   = 100 * time.Millisecond
	DefaultRetries       = 2
	DefaultWatchInterval = 30 * time.Second
	DefaultImageTimeout  = 10 * time.Second
)

// Backend returns the backend base URL.
func (c *Config) Backend() string { return orDefault(c.BackendURL, DefaultBackendURL) }

// NLP returns the NLP service base URL.
func (c *Config) NLP() string { return orDefault(c.NLPURL, DefaultNLPURL) }

// RangeToken returns the default period token.
func (c *Config) RangeToken() string { return orDefault(c.Range, DefaultRange) }

// TimeoutDuration returns the HTTP timeout.
func (c *Config) TimeoutDuration() time.Duration { return durationOr(c.Timeout, DefaultTimeout) }

// MinIntervalDuration returns the minimum spacing between API requests.
func (c *Config) MinIntervalDuration() time.Duration {
	return durationOr(c.MinInterval, DefaultMinInterval)
}

// RetryCount returns how many times idempotent requests are retried.
func (c *Config) RetryCount() int {
	if c.Retries == nil {
		return DefaultRetries
	}
	return *c.Retries
}

// WatchInterval returns the refresh interval of the watch command.
func (c *Config) WatchInterval() time.Duration {
	return durationOr(c.Watch.Interval, DefaultWatchInterval)
}

// ImageTimeout returns the PDF image fetch timeout.
func (c *Config) ImageTimeout() time.Duration {
	return durationOr(c.Export.ImageTimeout, DefaultImageTimeout)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// durationOr parses s, returning def when s is empty or invalid. Validate
// reports invalid values.
func durationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
