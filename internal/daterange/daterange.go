// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package daterange resolves named period presets ("7d", "month", ...) into
// concrete date ranges and maps ranges back to presets.
package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Token names a period preset.
type Token string

const (
	Last7Days  Token = "7d"
	Last30Days Token = "30d"
	ThisWeek   Token = "week"
	ThisMonth  Token = "month"
	ThisYear   Token = "year"
	Custom     Token = "custom"
)

var (
	// ErrCustomRange is returned when resolving the custom token, which has no
	// fixed bounds.
	ErrCustomRange = errors.New("custom range has no preset bounds")
	// ErrUnknownToken is returned for tokens that are not presets.
	ErrUnknownToken = errors.New("unknown range token")
)

// Presets lists the resolvable tokens in match order.
func Presets() []Token {
	return []Token{Last7Days, Last30Days, ThisWeek, ThisMonth, ThisYear}
}

// ParseToken normalizes s into a Token.
func ParseToken(s string) (Token, error) {
	t := Token(strings.ToLower(strings.TrimSpace(s)))
	if t == Custom {
		return t, nil
	}
	for _, p := range Presets() {
		if t == p {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownToken, s)
}

// Range is a period with inclusive bounds. A zero To means the end has not
// been selected yet.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Complete reports whether both bounds are set.
func (r Range) Complete() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Resolve returns the range named by token, ending at now. Day arithmetic is
// calendar based in now's location, so DST transitions do not shift the
// start by an hour.
func Resolve(token Token, now time.Time) (Range, error) {
	var from time.Time
	switch token {
	case Last7Days:
		from = now.AddDate(0, 0, -7)
	case Last30Days:
		from = now.AddDate(0, 0, -30)
	case ThisWeek:
		from = startOfWeek(now)
	case ThisMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case ThisYear:
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case Custom:
		return Range{}, ErrCustomRange
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownToken, token)
	}
	return Range{From: from, To: now}, nil
}

// startOfWeek returns midnight of the ISO week's Monday.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// Match returns the first preset whose resolved bounds fall on the same
// calendar days as r, or Custom. Incomplete ranges are always Custom.
func Match(r Range, now time.Time) Token {
	if !r.Complete() {
		return Custom
	}
	for _, token := range Presets() {
		p, err := Resolve(token, now)
		if err != nil {
			continue
		}
		if SameDay(p.From, r.From) && SameDay(p.To, r.To) {
			return token
		}
	}
	return Custom
}

// Repair clears To when it falls on an earlier calendar day than From.
// Repair is idempotent.
func Repair(r Range) Range {
	if r.From.IsZero() || r.To.IsZero() {
		return r
	}
	if dayOf(r.From).After(dayOf(r.To)) {
		r.To = time.Time{}
	}
	return r
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Query formats the range as from/to query values (ISO dates).
func (r Range) Query() (from, to string) {
	if !r.From.IsZero() {
		from = r.From.Format(time.DateOnly)
	}
	if !r.To.IsZero() {
		to = r.To.Format(time.DateOnly)
	}
	return from, to
}

// String renders the range for logs and reports.
func (r Range) String() string {
	from, to := r.Query()
	if to == "" {
		to = "…"
	}
	return from + " → " + to
}

// ParseDate parses an ISO date (YYYY-MM-DD) in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
