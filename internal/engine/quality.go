package engine

import (
	"regexp"
	"strings"
)

// Quality scoring thresholds. The score is a deliberately simple
// heuristic over the generated text, not a model: it rewards length,
// structure, and specificity. Reproduced exactly so tests can compare
// scores across runs.
const (
	qualityBase          = 50
	lengthBonusShort     = 10 // output longer than 100 chars
	lengthBonusMedium    = 10 // output longer than 300 chars
	lengthBonusLong      = 5  // output longer than 600 chars
	bulletBonus          = 10
	multiLineBonus       = 5 // three or more non-empty lines
	noFillerBonus        = 10
	labeledPairBonus     = 5
	capsHeaderBonus      = 5
	qualityMax           = 100
	fallbackQualityScore = 25
)

var (
	// "LABEL: value | LABEL: value" structured pattern.
	labeledPairRe = regexp.MustCompile(`[A-Z][A-Z _-]+:[^|\n]+\|`)
	// A line that is an ALL-CAPS category header.
	capsHeaderRe = regexp.MustCompile(`(?m)^[A-Z][A-Z0-9 _-]{2,}:?\s*$`)
)

var fillerPhrases = []string{"n/a", "unclear", "generic"}

// Score rates generated engine output from 0 to 100.
func Score(output string) int {
	if strings.TrimSpace(output) == "" {
		return 0
	}

	score := qualityBase

	if len(output) > 100 {
		score += lengthBonusShort
	}
	if len(output) > 300 {
		score += lengthBonusMedium
	}
	if len(output) > 600 {
		score += lengthBonusLong
	}

	if hasBullets(output) {
		score += bulletBonus
	}
	if countNonEmptyLines(output) >= 3 {
		score += multiLineBonus
	}
	if !containsAny(strings.ToLower(output), fillerPhrases) {
		score += noFillerBonus
	}
	if labeledPairRe.MatchString(output) {
		score += labeledPairBonus
	}
	if capsHeaderRe.MatchString(output) {
		score += capsHeaderBonus
	}

	if score > qualityMax {
		score = qualityMax
	}
	return score
}

func hasBullets(output string) bool {
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "• ") {
			return true
		}
	}
	return false
}

func countNonEmptyLines(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
