// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/observatoire/plaintes/internal/llm"
	"github.com/observatoire/plaintes/internal/recommend"
	"github.com/observatoire/plaintes/internal/refresh"
)

// Session keeps the latest snapshot across reloads. A reload that is
// overtaken by a newer one is cancelled and its result discarded, so the
// latest request always wins regardless of response order.
type Session struct {
	src      Source
	provider llm.Provider
	nowFunc  func() time.Time

	tracker refresh.Tracker

	mu     sync.RWMutex
	latest *Snapshot
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithProvider enables LLM refinement of recommendations.
func WithProvider(p llm.Provider) SessionOption {
	return func(s *Session) { s.provider = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.nowFunc = now }
}

// NewSession creates a session reading from src.
func NewSession(src Source, opts ...SessionOption) *Session {
	s := &Session{src: src, nowFunc: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Reload fetches and builds a snapshot for p. applied is false when a newer
// Reload started in the meantime; the result is then discarded and the error,
// if any, suppressed.
func (s *Session) Reload(ctx context.Context, p Params) (snap *Snapshot, applied bool, err error) {
	now := s.nowFunc()
	r, err := p.Period(now)
	if err != nil {
		return nil, false, err
	}

	reqCtx, ticket := s.tracker.Begin(ctx)
	d, err := Load(reqCtx, s.src, r, p.ComplaintSample)
	if err != nil {
		if !ticket.Current() {
			return nil, false, nil
		}
		return nil, false, err
	}

	built := Build(d, p, now)
	if s.provider != nil {
		built.Recommendations = recommend.Refine(reqCtx, s.provider,
			recommend.Input{Buckets: filterCounts(d.Counts, p.Zone, p.Category)}, built.Recommendations)
	}

	applied = ticket.Apply(func() {
		s.mu.Lock()
		s.latest = &built
		s.mu.Unlock()
	})
	if !applied {
		return nil, false, nil
	}
	return &built, true, nil
}

// Latest returns the most recently applied snapshot, or nil.
func (s *Session) Latest() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Close cancels any in-flight reload.
func (s *Session) Close() {
	s.tracker.End()
}
