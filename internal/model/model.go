// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package model defines the canonical domain types for plaintes. Wire shapes
// returned by the backend are converted into these types by the Normalize*
// functions; nothing downstream of this package sees backend field names.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Sentinel labels used when a zone or category is missing.
const (
	UnknownZone     = "Inconnu"
	UnknownCategory = "Autres"
)

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusSubmitted  Status = "SUBMITTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusRejected   Status = "REJECTED"
)

// wireStatus maps canonical statuses to the values the backend stores.
var wireStatus = map[Status]string{
	StatusSubmitted:  "EN_ATTENTE",
	StatusInProgress: "EN_COURS",
	StatusResolved:   "RESOLUE",
	StatusRejected:   "REJETEE",
}

// Statuses returns every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusSubmitted, StatusInProgress, StatusResolved, StatusRejected}
}

// ParseStatus accepts either the canonical name or the backend's French value,
// case-insensitively.
func ParseStatus(s string) (Status, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for canonical, wire := range wireStatus {
		if v == string(canonical) || v == wire {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (expected one of SUBMITTED, IN_PROGRESS, RESOLVED, REJECTED)", s)
}

// Wire returns the backend representation of the status.
func (s Status) Wire() string {
	if w, ok := wireStatus[s]; ok {
		return w
	}
	return string(s)
}

// Complaint is a single citizen complaint.
type Complaint struct {
	ID            int64              `json:"id"`
	Description   string             `json:"description"`
	Category      string             `json:"category"`
	Zone          string             `json:"zone"`
	Location      string             `json:"location,omitempty"`
	Status        Status             `json:"status"`
	SubmittedAt   time.Time          `json:"submittedAt"`
	PriorityScore *float64           `json:"priorityScore,omitempty"` // within [0,20] when set
	UrgencyLevel  string             `json:"urgencyLevel,omitempty"`
	AIScores      map[string]float64 `json:"aiScores,omitempty"`
	ImageURL      string             `json:"imageUrl,omitempty"`
}

// CountBucket is the raw aggregation unit.
type CountBucket struct {
	Zone     string `json:"zone"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ZoneTrend is the percentage change of complaints for a zone and category
// between two periods. PercentageChange is nil when the backend sent no
// usable value.
type ZoneTrend struct {
	Zone             string   `json:"zone"`
	Category         string   `json:"category"`
	PercentageChange *float64 `json:"percentageChange"`
}

// HourlyCount is one bucket of the hour-of-day histogram.
type HourlyCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// ResolutionRow reports how many complaints were resolved for a commune and
// category. Rate is a percentage in [0,100].
type ResolutionRow struct {
	Commune  string  `json:"commune"`
	Category string  `json:"categorie"`
	Total    int     `json:"totalPlaintes"`
	Resolved int     `json:"resoluePlaintes"`
	Rate     float64 `json:"tauxResolution"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
}

// Classification is the NLP service's verdict for a complaint description.
type Classification struct {
	Category string             `json:"categorie"`
	Scores   map[string]float64 `json:"scores,omitempty"`
	Priority *float64           `json:"priorite,omitempty"`
	Urgency  string             `json:"niveau_urgence,omitempty"`
}
