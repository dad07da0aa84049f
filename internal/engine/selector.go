package engine

import "strings"

// Keyword sets for conditional engine selection. Genre and tone match
// independently; a single story can trigger several conditional engines.
var conditionalTriggers = []struct {
	engine        string
	genreKeywords []string
	toneKeywords  []string
}{
	{
		engine:        EngineComedyTiming,
		genreKeywords: []string{"comedy", "humor", "funny"},
		toneKeywords:  []string{"humorous", "comedic", "lighthearted"},
	},
	{
		engine:        EngineHorror,
		genreKeywords: []string{"horror", "thriller", "suspense", "scary"},
		toneKeywords:  []string{"dark", "ominous", "suspenseful", "eerie"},
	},
	{
		engine:        EngineRomanceChemistry,
		genreKeywords: []string{"romance", "romantic", "love"},
		toneKeywords:  []string{"romantic", "intimate", "passionate"},
	},
	{
		engine:        EngineMystery,
		genreKeywords: []string{"mystery", "detective", "investigation", "noir", "crime"},
		toneKeywords:  []string{"mysterious", "enigmatic", "puzzling"},
	},
}

// SelectConditionalEngines decides which optional genre engines to
// include in a run. Pure classification: normalized substring matching
// against independent keyword sets, deduplicated, returned in fixed
// catalog order so identical inputs always yield identical sets.
func SelectConditionalEngines(genres []string, tone string) []string {
	var normalized []string
	for _, g := range genres {
		normalized = append(normalized, strings.ToLower(g))
	}
	loweredTone := strings.ToLower(tone)

	var selected []string
	for _, trigger := range conditionalTriggers {
		if matchesAny(normalized, trigger.genreKeywords) || containsAny(loweredTone, trigger.toneKeywords) {
			selected = append(selected, trigger.engine)
		}
	}
	return selected
}

func matchesAny(values, keywords []string) bool {
	for _, v := range values {
		if containsAny(v, keywords) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
