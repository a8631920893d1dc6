// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package refresh coordinates repeated fetches: a Tracker discards responses
// that were superseded by a newer request, and a Poller reloads on a fixed
// interval until stopped.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Tracker issues request generations. Beginning a new request cancels the
// previous one, and only the latest ticket may apply its result.
type Tracker struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Ticket identifies one request generation.
type Ticket struct {
	gen uint64
	t   *Tracker
}

// Begin starts a new generation derived from parent. The returned context is
// cancelled when a later generation begins or when End is called.
func (t *Tracker) Begin(parent context.Context) (context.Context, Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	t.gen++
	t.cancel = cancel
	return ctx, Ticket{gen: t.gen, t: t}
}

// Current reports whether no newer generation has begun since tk.
func (tk Ticket) Current() bool {
	if tk.t == nil {
		return false
	}
	tk.t.mu.Lock()
	defer tk.t.mu.Unlock()
	return tk.gen == tk.t.gen
}

// Apply runs fn only while tk is current. The tracker stays locked during fn
// so no newer generation can begin halfway through. It reports whether fn ran.
func (tk Ticket) Apply(fn func()) bool {
	if tk.t == nil {
		return false
	}
	tk.t.mu.Lock()
	defer tk.t.mu.Unlock()
	if tk.gen != tk.t.gen {
		return false
	}
	fn()
	return true
}

// End cancels the in-flight generation, if any.
func (t *Tracker) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// LoadFunc performs one refresh.
type LoadFunc func(ctx context.Context) error

// Poller calls a LoadFunc immediately and then every interval.
type Poller struct {
	interval time.Duration
	load     LoadFunc
	onError  func(error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	tracker Tracker
}

// NewPoller creates a poller. onError may be nil, in which case load errors
// are logged.
func NewPoller(interval time.Duration, load LoadFunc, onError func(error)) *Poller {
	if onError == nil {
		onError = func(err error) { slog.Warn("refresh failed", "error", err) }
	}
	return &Poller{interval: interval, load: load, onError: onError}
}

// ErrAlreadyRunning is returned by Start on a running poller.
var ErrAlreadyRunning = errors.New("poller already running")

// Start launches the polling loop bound to ctx.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
	return nil
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer p.tracker.End()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	reqCtx, ticket := p.tracker.Begin(ctx)
	err := p.load(reqCtx)
	if err == nil || ctx.Err() != nil {
		return
	}
	ticket.Apply(func() { p.onError(err) })
}

// Stop cancels the loop and waits for the in-flight load to return. Stop is
// safe to call more than once and on a poller that never started.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil
}
