package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/observatoire/plaintes/internal/llm"
)

const maxRefined = 8

// Refine asks provider to rephrase and reorder base for the situation in in.
// Any provider or parse failure returns base unchanged; the error is logged,
// never returned.
func Refine(ctx context.Context, provider llm.Provider, in Input, base []string) []string {
	if provider == nil || len(base) == 0 {
		return base
	}

	resp, err := provider.Complete(ctx, llm.Request{
		SystemPrompt: "Tu es analyste pour un observatoire municipal des plaintes. Réponds uniquement en JSON valide.",
		Prompt:       buildPrompt(in, base),
		MaxTokens:    1024,
	})
	if err != nil {
		slog.Warn("LLM recommendation refinement failed, using rule-based list", "error", err)
		return base
	}

	refined, err := parseRefined(resp.Content)
	if err != nil {
		slog.Warn("failed to parse refined recommendations, using rule-based list", "error", err)
		return base
	}
	slog.Debug("recommendations refined", "rules", len(base), "refined", len(refined))
	return refined
}

func buildPrompt(in Input, base []string) string {
	var b strings.Builder
	b.WriteString("Plaintes agrégées (zone / catégorie / nombre) :\n")
	for _, bk := range in.Buckets {
		fmt.Fprintf(&b, "- %s / %s / %d\n", bk.Zone, bk.Category, bk.Count)
	}
	if t := in.Trend; t != nil {
		fmt.Fprintf(&b, "\nÉvolution sur la période : %+.1f%% (%s)\n", t.PercentageChange, t.Direction)
	}
	b.WriteString("\nRecommandations issues des règles :\n")
	for _, r := range base {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\nReformule ces recommandations en français, de la plus urgente à la moins urgente, ")
	fmt.Fprintf(&b, "sans en inventer de nouvelles ni dépasser %d éléments.\n", maxRefined)
	b.WriteString(`Format : {"recommendations": ["..."]}`)
	return b.String()
}

func parseRefined(content string) ([]string, error) {
	raw, err := llm.ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var items []string
	var wrapper struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err == nil && len(wrapper.Recommendations) > 0 {
		items = wrapper.Recommendations
	} else if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parse recommendations: %.200s", raw)
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
		if len(out) == maxRefined {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("parse recommendations: empty list")
	}
	return out, nil
}
