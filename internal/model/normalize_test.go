package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"SUBMITTED", StatusSubmitted},
		{"en_attente", StatusSubmitted},
		{"EN_COURS", StatusInProgress},
		{" resolved ", StatusResolved},
		{"RESOLUE", StatusResolved},
		{"REJETEE", StatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStatus("ARCHIVED")
	assert.Error(t, err)
}

func TestStatus_Wire(t *testing.T) {
	assert.Equal(t, "EN_COURS", StatusInProgress.Wire())
	assert.Equal(t, "RESOLUE", StatusResolved.Wire())
	assert.Equal(t, "OTHER", Status("OTHER").Wire())
}

func TestNumber_Lenient(t *testing.T) {
	var row struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
		E Number `json:"e"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12, "b": "7.5", "c": "abc", "d": null, "e": {"x": 1}}`), &row))

	assert.Equal(t, Number{Value: 12, Valid: true}, row.A)
	assert.Equal(t, Number{Value: 7.5, Valid: true}, row.B)
	assert.False(t, row.C.Valid)
	assert.False(t, row.D.Valid)
	assert.False(t, row.E.Valid)
}

func TestLabel_StringOrObject(t *testing.T) {
	var rows []struct {
		Categorie Label `json:"categorie"`
	}
	require.NoError(t, json.Unmarshal([]byte(`[
		{"categorie": "DECHETS"},
		{"categorie": {"id": 2, "nom": "VOIRIE"}},
		{"categorie": null},
		{"categorie": 42}
	]`), &rows))

	require.Len(t, rows, 4)
	assert.Equal(t, Label("DECHETS"), rows[0].Categorie)
	assert.Equal(t, Label("VOIRIE"), rows[1].Categorie)
	assert.Equal(t, Label(""), rows[2].Categorie)
	assert.Equal(t, Label(""), rows[3].Categorie)
}

func TestNormalizeCounts(t *testing.T) {
	var wire []WireCount
	require.NoError(t, json.Unmarshal([]byte(`[
		{"zone": "A", "category": "DECHETS", "count": 3},
		{"commune": "B", "categorie": {"nom": "VOIRIE"}, "total": "4"},
		{"zone": "  ", "totalPlaintes": 2},
		{"zone": "C", "category": "X", "count": -5},
		{"zone": "D", "count": "oops"}
	]`), &wire))

	got := NormalizeCounts(wire)
	assert.Equal(t, []CountBucket{
		{Zone: "A", Category: "DECHETS", Count: 3},
		{Zone: "B", Category: "VOIRIE", Count: 4},
		{Zone: UnknownZone, Category: UnknownCategory, Count: 2},
		{Zone: "C", Category: "X", Count: 0},
		{Zone: "D", Category: UnknownCategory, Count: 0},
	}, got)
}

func TestNormalizeTrends(t *testing.T) {
	var wire []WireTrend
	require.NoError(t, json.Unmarshal([]byte(`[
		{"zone": "A", "category": "DECHETS", "percentageChange": 12.5},
		{"zone": "B", "percentageChange": "bad"}
	]`), &wire))

	got := NormalizeTrends(wire)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].PercentageChange)
	assert.InDelta(t, 12.5, *got[0].PercentageChange, 1e-9)
	assert.Equal(t, UnknownCategory, got[1].Category)
	assert.Nil(t, got[1].PercentageChange)
}

func TestNormalizeTrends_MissingChange(t *testing.T) {
	var wire []WireTrend
	require.NoError(t, json.Unmarshal([]byte(`[
		{"zone": "A"},
		{"zone": "B", "percentageChange": null},
		{"zone": "C", "percentageChange": "n/a"},
		{"zone": "D", "percentageChange": 0},
		{"zone": "E", "value": "-4.5"}
	]`), &wire))

	got := NormalizeTrends(wire)
	require.Len(t, got, 5)
	for _, tr := range got[:3] {
		assert.Nil(t, tr.PercentageChange, tr.Zone)
	}
	require.NotNil(t, got[3].PercentageChange)
	assert.Zero(t, *got[3].PercentageChange)
	require.NotNil(t, got[4].PercentageChange)
	assert.InDelta(t, -4.5, *got[4].PercentageChange, 1e-9)
}

func TestNormalizeHourly(t *testing.T) {
	var wire []WireHourly
	require.NoError(t, json.Unmarshal([]byte(`[
		{"trancheHoraire": "08:00-09:00", "totalPlaintes": 4},
		{"hour": 14, "count": 2},
		{"trancheHoraire": "21h", "count": 1},
		{"trancheHoraire": "nuit", "count": 9},
		{"hour": 27, "count": 1}
	]`), &wire))

	assert.Equal(t, []HourlyCount{
		{Hour: 8, Count: 4},
		{Hour: 14, Count: 2},
		{Hour: 21, Count: 1},
	}, NormalizeHourly(wire))
}

func TestNormalizeResolution(t *testing.T) {
	var wire []WireResolution
	require.NoError(t, json.Unmarshal([]byte(`[
		{"commune": "Tunis", "categorie": "DECHETS", "totalPlaintes": 10, "resoluePlaintes": 7, "tauxResolution": 0.7},
		{"commune": "Sfax", "categorie": "VOIRIE", "total": 3, "resolues": 1, "taux": 33.333},
		{"commune": "Sousse", "categorie": "EAU", "total": 8, "resolues": 2},
		{"categorie": "BRUIT", "total": 0, "resolues": 0}
	]`), &wire))

	got := NormalizeResolution(wire)
	require.Len(t, got, 4)
	assert.InDelta(t, 70.0, got[0].Rate, 1e-9)
	assert.Equal(t, 10, got[0].Total)
	assert.Equal(t, 7, got[0].Resolved)
	assert.InDelta(t, 33.3, got[1].Rate, 1e-9)
	assert.InDelta(t, 25.0, got[2].Rate, 1e-9)
	assert.Equal(t, UnknownZone, got[3].Commune)
	assert.Zero(t, got[3].Rate)
}

func TestNormalizeResolution_InconsistentCounts(t *testing.T) {
	var wire []WireResolution
	require.NoError(t, json.Unmarshal([]byte(`[
		{"commune": "Rabat", "categorie": "VOIRIE", "totalPlaintes": 4, "resoluePlaintes": 9},
		{"commune": "Salé", "categorie": "EAU", "totalPlaintes": -2, "resoluePlaintes": -1}
	]`), &wire))

	got := NormalizeResolution(wire)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].Resolved, "resolved is capped at the total")
	assert.InDelta(t, 100.0, got[0].Rate, 1e-9)
	assert.Zero(t, got[1].Total)
	assert.Zero(t, got[1].Resolved)
	assert.Zero(t, got[1].Rate)
}

func TestNormalizeComplaint_Envelope(t *testing.T) {
	var env WireComplaintEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{
		"plainte": {
			"id": 42,
			"description": " Ordures non ramassées ",
			"categorie": {"nom": "DECHETS"},
			"zone": "Ariana",
			"localisation": "Rue 5",
			"statut": "EN_COURS",
			"dateSoumission": "2025-05-01T10:20:30",
			"imgUrl": "http://img/1.jpg"
		},
		"analyse_ia": {"priorite": 25, "niveau_urgence": "critique", "scores": {"DECHETS": 0.9, "AGRESSION": 0.1}}
	}`), &env))

	c, ok := NormalizeEnvelope(env)
	require.True(t, ok)
	assert.Equal(t, int64(42), c.ID)
	assert.Equal(t, "Ordures non ramassées", c.Description)
	assert.Equal(t, "DECHETS", c.Category)
	assert.Equal(t, "Ariana", c.Zone)
	assert.Equal(t, StatusInProgress, c.Status)
	assert.True(t, time.Date(2025, 5, 1, 10, 20, 30, 0, time.Local).Equal(c.SubmittedAt))
	require.NotNil(t, c.PriorityScore)
	assert.InDelta(t, MaxPriority, *c.PriorityScore, 1e-9)
	assert.Equal(t, "critique", c.UrgencyLevel)
	assert.InDelta(t, 0.9, c.AIScores["DECHETS"], 1e-9)

	_, ok = NormalizeEnvelope(WireComplaintEnvelope{})
	assert.False(t, ok)
}

func TestNormalizeComplaint_Defaults(t *testing.T) {
	c := NormalizeComplaint(WireComplaint{ID: Number{Value: 1, Valid: true}, Statut: "???"}, nil)
	assert.Equal(t, UnknownZone, c.Zone)
	assert.Equal(t, UnknownCategory, c.Category)
	assert.Equal(t, StatusSubmitted, c.Status)
	assert.Nil(t, c.PriorityScore)
	assert.True(t, c.SubmittedAt.IsZero())
}

func TestClampPriority(t *testing.T) {
	assert.InDelta(t, 0.0, *ClampPriority(-3), 1e-9)
	assert.InDelta(t, 20.0, *ClampPriority(21), 1e-9)
	assert.InDelta(t, 12.5, *ClampPriority(12.5), 1e-9)
	assert.Nil(t, ClampPriority(math.NaN()))
}

func TestRoundTo(t *testing.T) {
	assert.InDelta(t, 65.2, RoundTo(65.217, 1), 1e-9)
	assert.InDelta(t, 34.8, RoundTo(34.782, 1), 1e-9)
	assert.InDelta(t, -1.3, RoundTo(-1.26, 1), 1e-9)
}
