// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/api"
	"github.com/observatoire/plaintes/internal/config"
	"github.com/observatoire/plaintes/internal/daterange"
	"github.com/observatoire/plaintes/internal/export"
	"github.com/observatoire/plaintes/internal/i18n"
	"github.com/observatoire/plaintes/internal/llm"
	"github.com/observatoire/plaintes/internal/redact"
)

// nowFunc is the clock used by every command. Tests pin it.
var nowFunc = time.Now

// newProvider builds the LLM used to refine recommendations. Tests replace it.
var newProvider = func(cfg *config.Config) (llm.Provider, error) {
	return llm.NewAnthropicProvider(llm.WithModel(cfg.LLMModel))
}

// env is the resolved configuration shared by the commands of one run.
type env struct {
	cfg     *config.Config
	catalog *i18n.Catalog
}

// loadEnv resolves the config files, the environment and the stored token,
// then applies the global flags on top.
func loadEnv() (*env, error) {
	cfg, err := config.Resolve(".")
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if nlpURL != "" {
		cfg.NLPURL = nlpURL
	}
	if langFlag != "" {
		cfg.Lang = langFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	if cfg.Token != "" {
		redact.Register(cfg.Token)
	}

	lang, err := i18n.ParseLang(cfg.Lang)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	catalog, err := i18n.New(lang)
	if err != nil {
		return nil, fmt.Errorf("plaintes: %w", err)
	}
	return &env{cfg: cfg, catalog: catalog}, nil
}

func (e *env) clientOptions() []api.Option {
	return []api.Option{
		api.WithToken(e.cfg.Token),
		api.WithHTTPClient(&http.Client{Timeout: e.cfg.TimeoutDuration()}),
		api.WithMinInterval(e.cfg.MinIntervalDuration()),
		api.WithRetries(e.cfg.RetryCount()),
	}
}

// client returns a backend client.
func (e *env) client() (*api.Client, error) {
	c, err := api.New(e.cfg.Backend(), e.clientOptions()...)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	slog.Debug("backend client ready", "url", c.BaseURL())
	return c, nil
}

// nlp returns a classification service client.
func (e *env) nlp() (*api.NLPClient, error) {
	c, err := api.NewNLPClient(e.cfg.NLP(), e.clientOptions()...)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	return c, nil
}

// provider returns the refinement LLM, or nil when it is disabled or not
// configured. Commands work the same without it.
func (e *env) provider(disabled bool) llm.Provider {
	if disabled || e.cfg.NoLLM {
		return nil
	}
	p, err := newProvider(e.cfg)
	if err != nil {
		slog.Debug("llm refinement disabled", "reason", err)
		return nil
	}
	return p
}

// pdfCatalog returns the catalog used for PDF text. The PDF core fonts only
// cover cp1252, so Arabic output falls back to French.
func (e *env) pdfCatalog() *i18n.Catalog {
	if e.catalog.Lang() != i18n.Arabic {
		return e.catalog
	}
	slog.Info("pdf text uses the French catalog", "lang", e.catalog.Lang())
	return i18n.Default()
}

// renderer returns the PDF renderer configured for this run.
func (e *env) renderer() *export.Renderer {
	opts := []export.RendererOption{
		export.WithImageFetcher(&export.HTTPImageFetcher{Client: &http.Client{Timeout: e.cfg.TimeoutDuration()}}),
		export.WithImageTimeout(e.cfg.ImageTimeout()),
		export.WithClock(nowFunc),
	}
	if e.cfg.Export.Placeholder != "" {
		opts = append(opts, export.WithPlaceholder(e.cfg.Export.Placeholder))
	}
	return export.NewRenderer(opts...)
}

// periodFlags are the --range/--from/--to flags shared by several commands.
type periodFlags struct {
	token string
	from  string
	to    string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.token, "range", "r", "", "period: 7d, 30d, week, month, year (default from config)")
	cmd.Flags().StringVar(&f.from, "from", "", "custom period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "custom period end (YYYY-MM-DD)")
}

func (f *periodFlags) reset() { *f = periodFlags{} }

// resolve returns the preset token, or Custom with explicit bounds when
// --from is set.
func (f *periodFlags) resolve(cfg *config.Config, now time.Time) (daterange.Token, daterange.Range, error) {
	if f.from != "" {
		if f.token != "" {
			return "", daterange.Range{}, exitError(ExitInvalidArgs, "plaintes: --range and --from are mutually exclusive")
		}
		var r daterange.Range
		var err error
		if r.From, err = daterange.ParseDate(f.from, now.Location()); err != nil {
			return "", daterange.Range{}, exitError(ExitInvalidArgs, "plaintes: %v", err)
		}
		if f.to != "" {
			if r.To, err = daterange.ParseDate(f.to, now.Location()); err != nil {
				return "", daterange.Range{}, exitError(ExitInvalidArgs, "plaintes: %v", err)
			}
		} else {
			r.To = now
		}
		r = daterange.Repair(r)
		if !r.Complete() {
			return "", daterange.Range{}, exitError(ExitInvalidArgs, "plaintes: --to %s is before --from %s", f.to, f.from)
		}
		return daterange.Custom, r, nil
	}
	if f.to != "" {
		return "", daterange.Range{}, exitError(ExitInvalidArgs, "plaintes: --to requires --from")
	}

	raw := f.token
	if raw == "" {
		raw = cfg.RangeToken()
	}
	tok, err := daterange.ParseToken(raw)
	if err != nil {
		return "", daterange.Range{}, exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	if tok == daterange.Custom {
		return "", daterange.Range{}, exitError(ExitInvalidArgs, "plaintes: --range custom needs --from")
	}
	r, err := daterange.Resolve(tok, now)
	if err != nil {
		return "", daterange.Range{}, exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
	return tok, r, nil
}

// writeOutput writes data to path, or to w when path is "-". A relative path
// without directory lands in the configured export directory.
func writeOutput(w io.Writer, cfg *config.Config, path string, data []byte) (string, error) {
	if path == "-" {
		_, err := w.Write(data)
		return "-", err
	}
	if filepath.Base(path) == path && cfg.Export.Dir != "" {
		path = filepath.Join(cfg.Export.Dir, path)
	}
	abs, err := cmdFS.Abs(path)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "plaintes: cannot resolve path %q (%v)", path, err)
	}
	if info, err := cmdFS.Stat(abs); err == nil && info.IsDir() {
		return "", exitError(ExitInvalidArgs, "plaintes: %q is a directory", path)
	}
	if err := cmdFS.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", exitError(ExitInvalidArgs, "plaintes: cannot create directory for %q (%v)", path, err)
	}
	if err := cmdFS.WriteFile(abs, data, 0o644); err != nil { //nolint:gosec // exported files are meant to be shared
		return "", exitError(ExitInvalidArgs, "plaintes: cannot write %q (%v)", path, err)
	}
	slog.Info("file written", "path", abs, "bytes", len(data))
	return abs, nil
}

// defaultFileName names an artifact after its kind and today's date.
func defaultFileName(kind, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", kind, now.Format(time.DateOnly), ext)
}
