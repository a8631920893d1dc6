// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package i18n provides the French and Arabic message catalogs used for
// report labels, CSV headers and PDF text.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Lang is a supported catalog language.
type Lang string

const (
	French Lang = "fr"
	Arabic Lang = "ar"
)

// DefaultLang is used when no language is configured and as the fallback for
// missing keys.
const DefaultLang = French

//go:embed locales/*.toml
var locales embed.FS

var (
	loadOnce sync.Once
	catalogs map[Lang]map[string]string
	loadErr  error
)

func loadAll() {
	catalogs = make(map[Lang]map[string]string)
	for _, lang := range []Lang{French, Arabic} {
		data, err := locales.ReadFile("locales/" + string(lang) + ".toml")
		if err != nil {
			loadErr = fmt.Errorf("reading %s catalog: %w", lang, err)
			return
		}
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			loadErr = fmt.Errorf("parsing %s catalog: %w", lang, err)
			return
		}
		flat := make(map[string]string)
		flatten("", raw, flat)
		catalogs[lang] = flat
	}
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch x := v.(type) {
		case map[string]any:
			flatten(key, x, out)
		case string:
			out[key] = x
		default:
			out[key] = fmt.Sprint(x)
		}
	}
}

// ParseLang validates a language code. Empty selects DefaultLang.
func ParseLang(s string) (Lang, error) {
	switch l := Lang(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return DefaultLang, nil
	case French, Arabic:
		return l, nil
	default:
		return "", fmt.Errorf("unsupported language %q (expected fr or ar)", s)
	}
}

// Catalog looks up messages for one language.
type Catalog struct {
	lang     Lang
	messages map[string]string
	fallback map[string]string
}

// New returns the catalog for lang.
func New(lang Lang) (*Catalog, error) {
	loadOnce.Do(loadAll)
	if loadErr != nil {
		return nil, loadErr
	}
	msgs, ok := catalogs[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	return &Catalog{lang: lang, messages: msgs, fallback: catalogs[DefaultLang]}, nil
}

// Default returns the French catalog. It panics if the embedded catalogs are
// broken, which only a bad build can cause.
func Default() *Catalog {
	c, err := New(DefaultLang)
	if err != nil {
		panic(err)
	}
	return c
}

// Lang returns the catalog language.
func (c *Catalog) Lang() Lang { return c.lang }

// T returns the message for key formatted with args. Missing keys fall back
// to the French catalog, then to the key itself.
func (c *Catalog) T(key string, args ...any) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = c.fallback[key]
	}
	if !ok {
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Has reports whether key is defined in this catalog without fallback.
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}

// Keys returns every key of the catalog, sorted.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.messages))
	for k := range c.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
