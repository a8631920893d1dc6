// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package report renders a dashboard snapshot as a terminal report made of
// pluggable sections.
package report

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/observatoire/plaintes/internal/dashboard"
)

// ErrDataNotAvailable indicates the snapshot has nothing for a section, for
// example no complaints were sampled for the urgency breakdown.
var ErrDataNotAvailable = errors.New("data not available")

// Translator resolves message keys. *i18n.Catalog implements it.
type Translator interface {
	T(key string, args ...any) string
}

// Section is one report block.
type Section interface {
	// Name returns the unique identifier, e.g. "ranking".
	Name() string

	// Description is a short human-readable summary.
	Description() string

	// Analyze prepares the section from snap. It returns ErrDataNotAvailable
	// (wrapped) when the snapshot has nothing to show.
	Analyze(snap *dashboard.Snapshot) error

	// Render writes the section to w.
	Render(w io.Writer, tr Translator) error
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Section)
	order    []string
)

// Register adds a section. It panics on a duplicate name.
func Register(s Section) {
	mu.Lock()
	defer mu.Unlock()
	name := s.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("report section already registered: %s", name))
	}
	registry[name] = s
	order = append(order, name)
}

// Get returns the named section or nil.
func Get(name string) Section {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// List returns section names in registration order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Section)
	order = nil
}
