// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/observatoire/plaintes/internal/dashboard"
)

// defaultOrder is the reading order of the built-in sections. Sections not
// listed follow in registration order.
var defaultOrder = []string{"summary", "ranking", "trends", "urgency", "resolution", "hourly", "recommendations"}

// ResolveSections returns the sections to run. An empty filter selects every
// registered section in reading order; unknown names are dropped.
func ResolveSections(filter []string) []string {
	registered := List()
	if len(filter) == 0 {
		var names []string
		for _, n := range defaultOrder {
			if slices.Contains(registered, n) {
				names = append(names, n)
			}
		}
		for _, n := range registered {
			if !slices.Contains(defaultOrder, n) {
				names = append(names, n)
			}
		}
		return names
	}

	var names []string
	for _, n := range filter {
		if slices.Contains(registered, n) {
			names = append(names, n)
		} else {
			slog.Warn("unknown report section", "section", n)
		}
	}
	return names
}

// RenderText writes the selected sections of snap to w. Sections without
// data are skipped.
func RenderText(w io.Writer, snap *dashboard.Snapshot, filter []string, tr Translator) error {
	for _, name := range ResolveSections(filter) {
		sec := Get(name)
		if err := sec.Analyze(snap); err != nil {
			if errors.Is(err, ErrDataNotAvailable) {
				slog.Debug("skipping report section", "section", name, "reason", err)
				continue
			}
			return fmt.Errorf("section %s: %w", name, err)
		}
		if err := sec.Render(w, tr); err != nil {
			return fmt.Errorf("section %s render: %w", name, err)
		}
	}
	return nil
}

// ReportJSON is the --format json envelope.
type ReportJSON struct {
	Generated string              `json:"generated"`
	Period    string              `json:"period"`
	Snapshot  *dashboard.Snapshot `json:"snapshot"`
	Sections  []SectionJSON       `json:"sections,omitempty"`
}

// SectionJSON is one rendered section.
type SectionJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"` // "ok" or "skipped"
	Content     string `json:"content,omitempty"`
}

// RenderJSON writes the snapshot and the rendered sections as JSON.
func RenderJSON(w io.Writer, snap *dashboard.Snapshot, filter []string, tr Translator) error {
	if snap == nil {
		return fmt.Errorf("render json: %w", ErrDataNotAvailable)
	}
	out := ReportJSON{
		Generated: snap.GeneratedAt.Format(time.RFC3339),
		Period:    snap.Range.String(),
		Snapshot:  snap,
	}

	for _, name := range ResolveSections(filter) {
		sec := Get(name)
		sj := SectionJSON{Name: sec.Name(), Description: sec.Description()}
		if err := sec.Analyze(snap); err != nil {
			if !errors.Is(err, ErrDataNotAvailable) {
				return fmt.Errorf("section %s: %w", name, err)
			}
			sj.Status = "skipped"
			out.Sections = append(out.Sections, sj)
			continue
		}
		var buf bytes.Buffer
		if err := sec.Render(&buf, tr); err != nil {
			return fmt.Errorf("section %s render: %w", name, err)
		}
		sj.Status = "ok"
		sj.Content = buf.String()
		out.Sections = append(out.Sections, sj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
