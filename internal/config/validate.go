// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/observatoire/plaintes/internal/daterange"
	"github.com/observatoire/plaintes/internal/i18n"
)

// OutputFormats lists the accepted output_format values.
var OutputFormats = []string{"text", "json"}

// Validate checks every field and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	for key, u := range map[string]string{"backend_url": cfg.BackendURL, "nlp_url": cfg.NLPURL} {
		if u == "" {
			continue
		}
		if parsed, err := url.Parse(u); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errs = append(errs, fmt.Sprintf("%s: must be an absolute http(s) URL, got %q", key, u))
		}
	}

	if cfg.Lang != "" {
		if _, err := i18n.ParseLang(cfg.Lang); err != nil {
			errs = append(errs, fmt.Sprintf("lang: %v", err))
		}
	}

	if cfg.Range != "" {
		tok, err := daterange.ParseToken(cfg.Range)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("range: %v", err))
		case tok == daterange.Custom:
			errs = append(errs, "range: custom has no preset bounds")
		}
	}

	if cfg.TopN < 0 {
		errs = append(errs, fmt.Sprintf("top_n: must be non-negative, got %d", cfg.TopN))
	}

	if cfg.OutputFormat != "" && cfg.OutputFormat != "text" && cfg.OutputFormat != "json" {
		errs = append(errs, fmt.Sprintf("output_format: invalid value %q (must be %s)",
			cfg.OutputFormat, strings.Join(OutputFormats, " or ")))
	}

	if cfg.Retries != nil && (*cfg.Retries < 0 || *cfg.Retries > 10) {
		errs = append(errs, fmt.Sprintf("retries: must be between 0 and 10, got %d", *cfg.Retries))
	}

	for key, v := range map[string]string{
		"timeout":              cfg.Timeout,
		"min_interval":         cfg.MinInterval,
		"watch.interval":       cfg.Watch.Interval,
		"export.image_timeout": cfg.Export.ImageTimeout,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: must be a positive duration, got %q", key, v))
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
