// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/daterange"
	"github.com/observatoire/plaintes/internal/export"
	"github.com/observatoire/plaintes/internal/i18n"
	"github.com/observatoire/plaintes/internal/model"
	"github.com/observatoire/plaintes/internal/report"
	"github.com/observatoire/plaintes/internal/stats"
	"github.com/observatoire/plaintes/internal/testable"
)

// RankInput is the input schema for the rank_buckets tool.
type RankInput struct {
	Records    []model.CountBucket `json:"records" jsonschema:"Raw count records: zone, category, count"`
	Dimensions string              `json:"dimensions,omitempty" jsonschema:"Comma-separated grouping dimensions: zone, category (default: both)"`
	Limit      int                 `json:"limit,omitempty" jsonschema:"Keep the top N entries (0 = all)"`
}

// RankOutput is the structured result of rank_buckets.
type RankOutput struct {
	Total   int                 `json:"total"`
	Entries []stats.RankedEntry `json:"entries"`
}

// TrendInput is the input schema for the classify_trend tool.
type TrendInput struct {
	PercentageChange *float64 `json:"percentage_change,omitempty" jsonschema:"Percentage change between two periods; omit when unknown"`
}

// TrendOutput is the structured result of classify_trend.
type TrendOutput struct {
	stats.TrendClass
	Anomaly bool `json:"anomaly"`
}

// PriorityInput is the input schema for the bucket_priority tool.
type PriorityInput struct {
	Score *float64 `json:"score,omitempty" jsonschema:"AI priority score in [0,20]; omit for unclassified"`
}

// PriorityOutput is the structured result of bucket_priority.
type PriorityOutput struct {
	Urgency stats.Urgency `json:"urgency"`
}

// RangeInput is the input schema for the resolve_range tool.
type RangeInput struct {
	Token string `json:"token,omitempty" jsonschema:"Preset: 7d, 30d, week, month, year. Omit to match from/to instead"`
	From  string `json:"from,omitempty" jsonschema:"Start date YYYY-MM-DD, used when token is omitted"`
	To    string `json:"to,omitempty" jsonschema:"End date YYYY-MM-DD, used when token is omitted"`
}

// RangeOutput is the structured result of resolve_range.
type RangeOutput struct {
	Token    daterange.Token `json:"token"`
	From     string          `json:"from"`
	To       string          `json:"to,omitempty"`
	Complete bool            `json:"complete"`
}

// ExportInput is the input schema for the export_csv tool.
type ExportInput struct {
	Columns []string   `json:"columns" jsonschema:"Column headers in output order"`
	Rows    [][]string `json:"rows" jsonschema:"Cell values; missing cells render empty"`
	Dir     string     `json:"dir,omitempty" jsonschema:"Directory to write into; omit to return the CSV text"`
	Name    string     `json:"name,omitempty" jsonschema:"File name without directory (default: export.csv)"`
}

// SnapshotInput is the input schema for the dashboard_snapshot tool.
type SnapshotInput struct {
	Range    string `json:"range,omitempty" jsonschema:"Preset period: 7d, 30d, week, month, year (default 30d)"`
	Zone     string `json:"zone,omitempty" jsonschema:"Restrict to one zone"`
	Category string `json:"category,omitempty" jsonschema:"Restrict to one category"`
	TopN     int    `json:"top_n,omitempty" jsonschema:"Ranking length (default 5, negative = all)"`
	Sections string `json:"sections,omitempty" jsonschema:"Comma-separated report sections to include"`
}

type handlers struct {
	src     dashboard.Source
	catalog *i18n.Catalog
	now     func() time.Time
	fs      testable.FileSystem
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

func readOnly() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

func (h *handlers) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rank_buckets",
		Description: "Aggregate complaint count records by zone and/or category, then rank them with percentages and tiers.",
		Annotations: readOnly(),
	}, h.handleRank)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_trend",
		Description: "Classify a percentage change into a trend label and color token, and flag anomalies (|change| >= 50).",
		Annotations: readOnly(),
	}, h.handleTrend)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bucket_priority",
		Description: "Map an AI priority score (0-20) to an urgency tier: critical, high, medium, low or unclassified.",
		Annotations: readOnly(),
	}, h.handlePriority)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_range",
		Description: "Resolve a preset period token to dates, or match explicit dates back to a preset token.",
		Annotations: readOnly(),
	}, h.handleRange)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_csv",
		Description: "Encode rows as a spreadsheet-friendly CSV (UTF-8 BOM, ';' separator, quoted cells), optionally writing it to a directory.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    false,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, h.handleExport)

	if h.src != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "dashboard_snapshot",
			Description: "Fetch statistics from the complaints backend and return the dashboard report as JSON.",
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:    true,
				DestructiveHint: boolPtr(false),
				OpenWorldHint:   boolPtr(true),
			},
		}, h.handleSnapshot)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func (h *handlers) handleRank(_ context.Context, _ *mcp.CallToolRequest, input RankInput) (*mcp.CallToolResult, any, error) {
	buckets := stats.AggregateOrdered(input.Records, stats.ParseDimensions(input.Dimensions)...)
	out := RankOutput{
		Total:   stats.Total(buckets),
		Entries: stats.Rank(buckets, input.Limit),
	}
	res, err := jsonResult(out)
	return res, nil, err
}

func (h *handlers) handleTrend(_ context.Context, _ *mcp.CallToolRequest, input TrendInput) (*mcp.CallToolResult, any, error) {
	out := TrendOutput{TrendClass: stats.ClassifyTrendPtr(input.PercentageChange)}
	if input.PercentageChange != nil {
		out.Anomaly = stats.IsAnomaly(*input.PercentageChange)
	}
	res, err := jsonResult(out)
	return res, nil, err
}

func (h *handlers) handlePriority(_ context.Context, _ *mcp.CallToolRequest, input PriorityInput) (*mcp.CallToolResult, any, error) {
	out := PriorityOutput{Urgency: stats.BucketPriority(input.Score)}
	res, err := jsonResult(out)
	return res, nil, err
}

func (h *handlers) handleRange(_ context.Context, _ *mcp.CallToolRequest, input RangeInput) (*mcp.CallToolResult, any, error) {
	now := h.now()
	var r daterange.Range
	var token daterange.Token

	if input.Token != "" {
		t, err := daterange.ParseToken(input.Token)
		if err != nil {
			return nil, nil, err
		}
		r, err = daterange.Resolve(t, now)
		if err != nil {
			return nil, nil, err
		}
		token = t
	} else {
		if input.From == "" {
			return nil, nil, errors.New("token or from is required")
		}
		from, err := daterange.ParseDate(input.From, now.Location())
		if err != nil {
			return nil, nil, err
		}
		r.From = from
		if input.To != "" {
			if r.To, err = daterange.ParseDate(input.To, now.Location()); err != nil {
				return nil, nil, err
			}
		}
		r = daterange.Repair(r)
		token = daterange.Match(r, now)
	}

	from, to := r.Query()
	out := RangeOutput{Token: token, From: from, To: to, Complete: r.Complete()}
	res, err := jsonResult(out)
	return res, nil, err
}

func (h *handlers) handleExport(_ context.Context, _ *mcp.CallToolRequest, input ExportInput) (*mcp.CallToolResult, any, error) {
	if len(input.Columns) == 0 {
		return nil, nil, errors.New("columns are required")
	}
	rows := make([]export.Row, 0, len(input.Rows))
	for _, cells := range input.Rows {
		row := make(export.Row, 0, len(input.Columns))
		for i, col := range input.Columns {
			var v string
			if i < len(cells) {
				v = cells[i]
			}
			row = append(row, export.Field{Key: col, Value: v})
		}
		rows = append(rows, row)
	}

	data, err := export.ToCSV(rows)
	if err != nil {
		return nil, nil, err
	}

	if input.Dir == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil, nil
	}

	dir, err := resolveOutputDir(h.fs, input.Dir)
	if err != nil {
		return nil, nil, err
	}
	name := input.Name
	if name == "" {
		name = "export"
	}
	file, err := SafeFileName(name, ".csv")
	if err != nil {
		return nil, nil, err
	}
	path := filepath.Join(dir, file)
	if err := h.fs.WriteFile(path, data, 0o600); err != nil {
		return nil, nil, fmt.Errorf("write %s: %w", file, err)
	}
	slog.Info("csv exported", "path", path, "rows", len(rows))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("wrote %d rows to %s", len(rows), path)}},
	}, nil, nil
}

func (h *handlers) handleSnapshot(ctx context.Context, _ *mcp.CallToolRequest, input SnapshotInput) (*mcp.CallToolResult, any, error) {
	tokenStr := input.Range
	if tokenStr == "" {
		tokenStr = string(daterange.Last30Days)
	}
	token, err := daterange.ParseToken(tokenStr)
	if err != nil {
		return nil, nil, err
	}
	if token == daterange.Custom {
		return nil, nil, daterange.ErrCustomRange
	}

	p := dashboard.Params{
		Token:    token,
		Zone:     input.Zone,
		Category: input.Category,
		TopN:     input.TopN,
	}
	now := h.now()
	period, err := p.Period(now)
	if err != nil {
		return nil, nil, err
	}
	data, err := dashboard.Load(ctx, h.src, period, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("load statistics: %w", err)
	}
	snap := dashboard.Build(data, p, now)

	var sections []string
	if input.Sections != "" {
		sections = splitAndTrim(input.Sections)
	}
	var buf bytes.Buffer
	if err := report.RenderJSON(&buf, &snap, sections, h.catalog); err != nil {
		return nil, nil, fmt.Errorf("rendering failed: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: buf.String()}},
	}, nil, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace from each element.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
