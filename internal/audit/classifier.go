// Package audit compares AI-generated summaries with what editors published.
package audit

import (
	"math"
	"regexp"
	"strings"
)

// regionPrefixRe matches a dateline such as "LEIDEN - " or "DEN HAAG/RIJSWIJK - ".
var regionPrefixRe = regexp.MustCompile(`^\p{Lu}[\p{Lu}\s/-]* - `)

type Classification struct {
	Status           Status  `json:"status"`
	ChangePercentage float64 `json:"changePercentage"`
}

// StripRegionPrefix removes a leading dateline and trims the result.
func StripRegionPrefix(text string) string {
	text = strings.TrimSpace(text)

	return strings.TrimSpace(regionPrefixRe.ReplaceAllString(text, ""))
}

// Classify decides the status of a summary from its AI and human versions.
// The change percentage is only computed for edited AI summaries.
func Classify(aiText, humanText string) Classification {
	if strings.TrimSpace(aiText) == "" {
		return Classification{Status: StatusFullyHuman}
	}

	ai := StripRegionPrefix(aiText)
	human := StripRegionPrefix(humanText)

	if ai == human {
		return Classification{Status: StatusAIUnedited}
	}

	return Classification{
		Status:           StatusAIEdited,
		ChangePercentage: ChangePercentage(ai, human),
	}
}

// ChangePercentage is the share of words, relative to the longer text, that
// the two texts do not have in common. Shared words are counted per
// occurrence. The result is rounded to one decimal.
func ChangePercentage(aiText, humanText string) float64 {
	aiWords := strings.Fields(aiText)
	humanWords := strings.Fields(humanText)

	maxWords := max(len(aiWords), len(humanWords))
	if maxWords == 0 {
		return 0
	}

	counts := make(map[string]int, len(aiWords))
	for _, w := range aiWords {
		counts[w]++
	}

	matching := 0
	for _, w := range humanWords {
		if counts[w] > 0 {
			counts[w]--
			matching++
		}
	}

	ratio := 1 - float64(matching)/float64(maxWords)

	return math.Round(ratio*1000) / 10
}
