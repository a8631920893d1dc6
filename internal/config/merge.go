// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package config

// Merge combines the global and local configs. Non-zero local values win.
func Merge(global, local *Config) *Config {
	merged := *global

	if local.BackendURL != "" {
		merged.BackendURL = local.BackendURL
	}
	if local.NLPURL != "" {
		merged.NLPURL = local.NLPURL
	}
	if local.Lang != "" {
		merged.Lang = local.Lang
	}
	if local.Range != "" {
		merged.Range = local.Range
	}
	if local.TopN != 0 {
		merged.TopN = local.TopN
	}
	if local.OutputFormat != "" {
		merged.OutputFormat = local.OutputFormat
	}
	if len(local.Sections) > 0 {
		merged.Sections = local.Sections
	}
	if local.Timeout != "" {
		merged.Timeout = local.Timeout
	}
	if local.MinInterval != "" {
		merged.MinInterval = local.MinInterval
	}
	if local.Retries != nil {
		merged.Retries = local.Retries
	}
	if local.NoLLM {
		merged.NoLLM = true
	}
	if local.LLMModel != "" {
		merged.LLMModel = local.LLMModel
	}
	if local.Watch.Interval != "" {
		merged.Watch.Interval = local.Watch.Interval
	}
	if local.Export.Dir != "" {
		merged.Export.Dir = local.Export.Dir
	}
	if local.Export.ImageTimeout != "" {
		merged.Export.ImageTimeout = local.Export.ImageTimeout
	}
	if local.Export.Placeholder != "" {
		merged.Export.Placeholder = local.Export.Placeholder
	}
	return &merged
}

// Environment variables read by ApplyEnv.
const (
	EnvBackendURL = "PLAINTES_BACKEND_URL"
	EnvNLPURL     = "PLAINTES_NLP_URL"
	EnvToken      = "PLAINTES_TOKEN"
	EnvLang       = "PLAINTES_LANG"
)

// ApplyEnv overrides cfg with non-empty environment values.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvBackendURL); v != "" {
		cfg.BackendURL = v
	}
	if v := getenv(EnvNLPURL); v != "" {
		cfg.NLPURL = v
	}
	if v := getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := getenv(EnvLang); v != "" {
		cfg.Lang = v
	}
}
