package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/observatoire/plaintes/internal/model"
)

var semanticGroups = map[string]string{
	"AGRESSION":   "Violences et Sécurité",
	"HARCELEMENT": "Violences et Sécurité",
	"VOL":         "Violences et Sécurité",
	"DECHETS":     "Problèmes Environnementaux",
	"POLLUTION":   "Problèmes Environnementaux",
	"CORRUPTION":  "Infractions Administratives",
	"VOIRIE":      "Infrastructure et Transport",
	"AUTRES":      "Autres Problèmes",
}

// SemanticGroup maps a category code to its thematic group, or returns the
// code unchanged.
func SemanticGroup(category string) string {
	if g, ok := semanticGroups[strings.ToUpper(strings.TrimSpace(category))]; ok {
		return g
	}
	return model.CategoryLabel(category)
}

// TimePhrase names the part of the day containing hour.
func TimePhrase(hour int) string {
	switch {
	case hour >= 0 && hour < 6:
		return "cette nuit"
	case hour >= 6 && hour < 12:
		return "ce matin"
	case hour >= 12 && hour < 18:
		return "cet après-midi"
	case hour >= 18 && hour < 24:
		return "ce soir"
	}
	return "récemment"
}

// Summarize writes a one-sentence French summary of buckets. zone may be
// empty. Groups are listed by decreasing count, ties by name.
func Summarize(buckets []model.CountBucket, zone string, now time.Time) string {
	counts := make(map[string]int)
	total := 0
	for _, b := range buckets {
		if b.Count <= 0 {
			continue
		}
		counts[SemanticGroup(b.Category)] += b.Count
		total += b.Count
	}
	if total == 0 {
		return "Aucune plainte signalée pour cette période."
	}

	phrase := TimePhrase(now.Hour())
	phrase = strings.ToUpper(phrase[:1]) + phrase[1:]
	base := fmt.Sprintf("%s, %d plaintes ont été signalées", phrase, total)
	if zone != "" {
		base = fmt.Sprintf("%s à %s, %d plaintes ont été signalées", phrase, zone, total)
	}

	groups := make([]string, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if counts[groups[i]] != counts[groups[j]] {
			return counts[groups[i]] > counts[groups[j]]
		}
		return groups[i] < groups[j]
	})

	if len(groups) == 1 {
		return fmt.Sprintf("%s concernant %s.", base, strings.ToLower(groups[0]))
	}
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = fmt.Sprintf("%d cas de %s", counts[g], strings.ToLower(g))
	}
	last := len(parts) - 1
	text := parts[last]
	if last > 0 {
		text = strings.Join(parts[:last], ", ") + " et " + parts[last]
	}
	return fmt.Sprintf("%s : %s.", base, text)
}
