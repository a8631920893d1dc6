// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/i18n"
	"github.com/observatoire/plaintes/internal/testable"
)

// Option configures the server.
type Option func(*handlers)

// WithSource enables the dashboard_snapshot tool, which reads from src.
func WithSource(src dashboard.Source) Option {
	return func(h *handlers) { h.src = src }
}

// WithCatalog sets the catalog used for labels in exported files.
func WithCatalog(c *i18n.Catalog) Option {
	return func(h *handlers) { h.catalog = c }
}

// WithClock replaces time.Now for range resolution and snapshots.
func WithClock(now func() time.Time) Option {
	return func(h *handlers) { h.now = now }
}

// WithFileSystem replaces the file system export_csv writes through.
func WithFileSystem(fsys testable.FileSystem) Option {
	return func(h *handlers) { h.fs = fsys }
}

// New creates an MCP server with the plaintes tools registered.
func New(version string, opts ...Option) *mcp.Server {
	h := &handlers{catalog: i18n.Default(), now: time.Now, fs: testable.DefaultFS}
	for _, o := range opts {
		o(h)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "plaintes",
		Title:   "Plaintes, statistiques des plaintes citoyennes",
		Version: version,
	}, nil)

	h.register(server)
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, transport mcp.Transport, opts ...Option) error {
	return New(version, opts...).Run(ctx, transport)
}
