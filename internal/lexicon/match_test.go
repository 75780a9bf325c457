package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deeppurple/emotion-engine/internal/models"
)

func categories(labels ...string) []models.EmotionCategory {
	out := make([]models.EmotionCategory, 0, len(labels))
	for i, label := range labels {
		out = append(out, models.EmotionCategory{ID: int64(i + 1), Emotion: label})
	}
	return out
}

func assoc(word, emotion string, categoryID int64) models.WordEmotionAssociation {
	return models.WordEmotionAssociation{Word: word, Emotion: emotion, EmotionCategoryID: categoryID}
}

func TestExtractTokens(t *testing.T) {
	tokens := ExtractTokens("I am happy today 🎉")

	assert.Contains(t, tokens, "happy")
	assert.Contains(t, tokens, "today")
	assert.Contains(t, tokens, "🎉")
	// Distinct set, not a multiset.
	tokens = ExtractTokens("go go go")
	assert.Equal(t, []string{"go"}, tokens)
}

func TestCountEmotionsInitializesEveryCategory(t *testing.T) {
	cats := categories("Joy", "Sadness", "Fear")

	counts := CountEmotions("nothing relevant here", cats, []models.WordEmotionAssociation{
		assoc("happy", "Joy", 1),
	})

	assert.Equal(t, map[string]int{"Joy": 0, "Sadness": 0, "Fear": 0}, counts)
}

func TestCountEmotionsSubstringContainment(t *testing.T) {
	cats := categories("Sadness")
	assocs := []models.WordEmotionAssociation{assoc("sad", "Sadness", 1)}

	// "sad" sits inside "sadness"; the loose pass counts it.
	counts := CountEmotions("The sadness was overwhelming", cats, assocs)
	assert.Equal(t, 1, counts["Sadness"])

	// Case-insensitive.
	counts = CountEmotions("SAD but true", cats, assocs)
	assert.Equal(t, 1, counts["Sadness"])
}

func TestCountEmotionsSingleMatch(t *testing.T) {
	cats := categories("Joy")
	assocs := []models.WordEmotionAssociation{assoc("happy", "Joy", 1)}

	counts := CountEmotions("I am happy today", cats, assocs)
	assert.Equal(t, map[string]int{"Joy": 1}, counts)
}

func TestFilterForPromptWholeWordBoundary(t *testing.T) {
	assocs := []models.WordEmotionAssociation{assoc("art", "Joy", 1)}

	// "art" inside "party" is not a whole-word occurrence.
	assert.Empty(t, FilterForPrompt("we had a party", assocs))
	assert.Len(t, FilterForPrompt("modern art is moving", assocs), 1)
}

func TestFilterForPromptCaseSensitive(t *testing.T) {
	assocs := []models.WordEmotionAssociation{assoc("sad", "Sadness", 1)}

	// The inclusion filter runs against the raw content, unlike the
	// counting pass.
	assert.Empty(t, FilterForPrompt("SAD news today", assocs))
	assert.Len(t, FilterForPrompt("sad news today", assocs), 1)
}

func TestFilterForPromptEmojiContainment(t *testing.T) {
	assocs := []models.WordEmotionAssociation{assoc("🎉", "Joy", 1)}

	assert.Len(t, FilterForPrompt("party time 🎉!", assocs), 1)
	assert.Empty(t, FilterForPrompt("no emoji here", assocs))
}

func TestLooseAndStrictPassesDiverge(t *testing.T) {
	cats := categories("Joy")
	assocs := []models.WordEmotionAssociation{assoc("art", "Joy", 1)}
	content := "we had a party"

	counts := CountEmotions(content, cats, assocs)
	assert.Equal(t, 1, counts["Joy"], "loose pass matches art inside party")
	assert.Empty(t, FilterForPrompt(content, assocs), "strict pass does not")
}
