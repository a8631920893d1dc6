// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/observatoire/plaintes/internal/daterange"
	"github.com/observatoire/plaintes/internal/model"
)

// ListParams filters and pages the complaint listing. Zero values are not
// sent.
type ListParams struct {
	Page     int
	Size     int
	SortBy   string
	SortDir  string
	Status   model.Status
	Category string
	Commune  string
	Query    string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(p.Page, 0)))
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortDir != "" {
		v.Set("sortDir", p.SortDir)
	}
	if p.Status != "" {
		v.Set("status", p.Status.Wire())
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Commune != "" {
		v.Set("commune", p.Commune)
	}
	if p.Query != "" {
		v.Set("query", p.Query)
	}
	return v
}

func rangeValues(r daterange.Range) url.Values {
	v := url.Values{}
	from, to := r.Query()
	if from != "" {
		v.Set("from", from)
	}
	if to != "" {
		v.Set("to", to)
	}
	return v
}

type wirePage struct {
	Content       []model.WireComplaint `json:"content"`
	TotalPages    model.Number          `json:"totalPages"`
	TotalElements model.Number          `json:"totalElements"`
}

// ListComplaints returns one page of complaints.
func (c *Client) ListComplaints(ctx context.Context, p ListParams) (model.Page[model.Complaint], error) {
	var wp wirePage
	if err := c.do(ctx, http.MethodGet, "/plaintes", p.values(), nil, &wp); err != nil {
		return model.Page[model.Complaint]{}, fmt.Errorf("list complaints: %w", err)
	}
	page := model.Page[model.Complaint]{
		Content:       make([]model.Complaint, 0, len(wp.Content)),
		TotalPages:    wp.TotalPages.Int(),
		TotalElements: wp.TotalElements.Int(),
	}
	for _, w := range wp.Content {
		page.Content = append(page.Content, model.NormalizeComplaint(w, nil))
	}
	return page, nil
}

// GetComplaint fetches one complaint. Both the plain shape and the
// {plainte, analyse_ia} envelope are accepted.
func (c *Client) GetComplaint(ctx context.Context, id int64) (model.Complaint, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/plaintes/"+strconv.FormatInt(id, 10), nil, nil, &raw); err != nil {
		return model.Complaint{}, fmt.Errorf("get complaint %d: %w", id, err)
	}
	return decodeComplaint(raw)
}

func decodeComplaint(raw json.RawMessage) (model.Complaint, error) {
	var env model.WireComplaintEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.Complaint{}, fmt.Errorf("decoding complaint: %w", err)
	}
	if c, ok := model.NormalizeEnvelope(env); ok {
		return c, nil
	}
	var w model.WireComplaint
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Complaint{}, fmt.Errorf("decoding complaint: %w", err)
	}
	return model.NormalizeComplaint(w, nil), nil
}

// UpdateStatus changes the status of a complaint and returns the updated
// record.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.Complaint, error) {
	body := map[string]string{"status": status.Wire()}
	var raw json.RawMessage
	path := "/plaintes/" + strconv.FormatInt(id, 10) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &raw); err != nil {
		return model.Complaint{}, fmt.Errorf("update status of %d: %w", id, err)
	}
	if len(raw) == 0 {
		return model.Complaint{ID: id, Status: status}, nil
	}
	return decodeComplaint(raw)
}

// Frequency returns complaint counts per zone and category.
func (c *Client) Frequency(ctx context.Context, r daterange.Range) ([]model.CountBucket, error) {
	var rows []model.WireCount
	if err := c.do(ctx, http.MethodGet, "/stats/frequency", rangeValues(r), nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch frequency: %w", err)
	}
	return model.NormalizeCounts(rows), nil
}

// Trends returns percentage changes per zone and category.
func (c *Client) Trends(ctx context.Context, r daterange.Range) ([]model.ZoneTrend, error) {
	var rows []model.WireTrend
	if err := c.do(ctx, http.MethodGet, "/stats/trends", rangeValues(r), nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch trends: %w", err)
	}
	return model.NormalizeTrends(rows), nil
}

// Hourly returns the hour-of-day histogram.
func (c *Client) Hourly(ctx context.Context, r daterange.Range) ([]model.HourlyCount, error) {
	var rows []model.WireHourly
	if err := c.do(ctx, http.MethodGet, "/stats/horaire", rangeValues(r), nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch hourly: %w", err)
	}
	return model.NormalizeHourly(rows), nil
}

// Resolution returns resolution rates per commune and category.
func (c *Client) Resolution(ctx context.Context, r daterange.Range) ([]model.ResolutionRow, error) {
	var rows []model.WireResolution
	if err := c.do(ctx, http.MethodGet, "/stats/resolution", rangeValues(r), nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch resolution: %w", err)
	}
	return model.NormalizeResolution(rows), nil
}

// TopCommunes returns complaint totals per commune around referenceDate.
func (c *Client) TopCommunes(ctx context.Context, referenceDate time.Time) ([]model.CountBucket, error) {
	q := url.Values{}
	if !referenceDate.IsZero() {
		q.Set("referenceDate", referenceDate.Format(time.DateOnly))
	}
	var rows []model.WireCount
	if err := c.do(ctx, http.MethodGet, "/stats/TopCommunes", q, nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch top communes: %w", err)
	}
	return model.NormalizeCounts(rows), nil
}
