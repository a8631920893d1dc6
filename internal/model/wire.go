// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a lenient JSON number. It accepts numbers and numeric strings;
// anything else (null, objects, garbage) decodes to zero with Valid unset.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error so a
// single malformed field cannot reject a whole response.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// Int returns the value truncated to an int.
func (n Number) Int() int { return int(n.Value) }

// Label is a lenient JSON label. The backend sometimes sends a plain string
// and sometimes an entity such as {"id": 3, "nom": "DECHETS"}.
type Label string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	*l = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*l = Label(strings.TrimSpace(s))
		}
	case '{':
		var obj struct {
			Nom  string `json:"nom"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err == nil {
			*l = Label(strings.TrimSpace(firstNonEmpty(obj.Nom, obj.Name)))
		}
	}
	return nil
}

// WireCount is a frequency row as sent by /stats/frequency and /stats/TopCommunes.
type WireCount struct {
	Zone          Label  `json:"zone"`
	Commune       Label  `json:"commune"`
	Category      Label  `json:"category"`
	Categorie     Label  `json:"categorie"`
	Count         Number `json:"count"`
	Total         Number `json:"total"`
	TotalPlaintes Number `json:"totalPlaintes"`
}

// WireTrend is a row of /stats/trends.
type WireTrend struct {
	Zone             Label  `json:"zone"`
	Commune          Label  `json:"commune"`
	Category         Label  `json:"category"`
	Categorie        Label  `json:"categorie"`
	PercentageChange Number `json:"percentageChange"`
	Value            Number `json:"value"`
}

// WireHourly is a row of /stats/horaire.
type WireHourly struct {
	Hour           Number `json:"hour"`
	TrancheHoraire string `json:"trancheHoraire"`
	Count          Number `json:"count"`
	TotalPlaintes  Number `json:"totalPlaintes"`
}

// WireResolution is a row of /stats/resolution.
type WireResolution struct {
	Commune         Label  `json:"commune"`
	Zone            Label  `json:"zone"`
	Categorie       Label  `json:"categorie"`
	Category        Label  `json:"category"`
	TotalPlaintes   Number `json:"totalPlaintes"`
	Total           Number `json:"total"`
	ResoluePlaintes Number `json:"resoluePlaintes"`
	Resolues        Number `json:"resolues"`
	TauxResolution  Number `json:"tauxResolution"`
	Taux            Number `json:"taux"`
}

// WireAnalysis is the AI analysis attached to a complaint.
type WireAnalysis struct {
	Categorie     Label              `json:"categorie"`
	NiveauUrgence string             `json:"niveau_urgence"`
	Priorite      Number             `json:"priorite"`
	Scores        map[string]float64 `json:"scores"`
}

// WireComplaint is a complaint as serialized by the backend.
type WireComplaint struct {
	ID             Number             `json:"id"`
	Description    string             `json:"description"`
	Categorie      Label              `json:"categorie"`
	Category       Label              `json:"category"`
	Zone           Label              `json:"zone"`
	Localisation   string             `json:"localisation"`
	Statut         string             `json:"statut"`
	Status         string             `json:"status"`
	DateSoumission string             `json:"dateSoumission"`
	SubmittedAt    string             `json:"submittedAt"`
	Priorite       Number             `json:"priorite"`
	NiveauUrgence  string             `json:"niveauUrgence"`
	ImgURL         string             `json:"imgUrl"`
	Scores         map[string]float64 `json:"scores"`
	AnalyseIA      *WireAnalysis      `json:"analyseIA"`
}

// WireComplaintEnvelope is the enhanced /plaintes/{id} response.
type WireComplaintEnvelope struct {
	Plainte   *WireComplaint `json:"plainte"`
	AnalyseIA *WireAnalysis  `json:"analyse_ia"`
}

// WireClassification is the NLP /classify response.
type WireClassification struct {
	Categorie     Label              `json:"categorie"`
	Scores        map[string]float64 `json:"scores"`
	Priorite      Number             `json:"priorite"`
	NiveauUrgence string             `json:"niveau_urgence"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// firstValid returns the first valid number, or zero.
func firstValid(nums ...Number) Number {
	for _, n := range nums {
		if n.Valid {
			return n
		}
	}
	return Number{}
}
