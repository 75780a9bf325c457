package lexicon

import (
	"regexp"
	"sort"
	"strings"

	"github.com/deeppurple/emotion-engine/internal/models"
)

var (
	// tokenPattern extracts ASCII words plus symbol-category runes
	// (emoji) and surrogate code points.
	tokenPattern = regexp.MustCompile(`\b\w+\b|\p{So}|\p{Cs}`)

	// symbolWord reports whether an association word is a single
	// emoji/symbol rather than an ordinary word.
	symbolWord = regexp.MustCompile(`^(?:\p{So}|\p{Cs})$`)

	nonWord = regexp.MustCompile(`\W+`)
)

// ExtractTokens returns the distinct candidate tokens of content, sorted
// for deterministic downstream prompts.
func ExtractTokens(content string) []string {
	seen := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(content, -1) {
		seen[tok] = struct{}{}
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

// CountEmotions scores content against the given associations. Every
// category label starts at 0. Matching is deliberately loose: the content
// is lower-cased and split on non-word runs, and an association counts
// whenever its word appears anywhere inside a token, so "sad" matches
// "sadness". This over-matches short words; it is the scoring behavior
// the stored lexicons were tuned against and must not be tightened.
func CountEmotions(content string, categories []models.EmotionCategory, associations []models.WordEmotionAssociation) map[string]int {
	counts := make(map[string]int, len(categories))
	for _, category := range categories {
		counts[category.Emotion] = 0
	}

	tokens := nonWord.Split(strings.ToLower(content), -1)
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		for _, assoc := range associations {
			if strings.Contains(tok, strings.ToLower(assoc.Word)) {
				counts[assoc.Emotion]++
			}
		}
	}

	return counts
}

// FilterForPrompt keeps the associations whose word actually occurs in
// the content, under a stricter rule than CountEmotions: emoji and symbol
// words match by literal containment, ordinary words only on a whole-word
// boundary in the raw content. "art" does not match "party" here even
// though the counting pass would score it.
func FilterForPrompt(content string, associations []models.WordEmotionAssociation) []models.WordEmotionAssociation {
	var filtered []models.WordEmotionAssociation
	for _, assoc := range associations {
		if symbolWord.MatchString(assoc.Word) {
			if strings.Contains(content, assoc.Word) {
				filtered = append(filtered, assoc)
			}
			continue
		}

		boundary, err := regexp.Compile(`\b` + regexp.QuoteMeta(assoc.Word) + `\b`)
		if err != nil {
			continue
		}
		if boundary.MatchString(content) {
			filtered = append(filtered, assoc)
		}
	}

	return filtered
}
