package lexicon

import (
	"fmt"
	"strings"

	"github.com/deeppurple/emotion-engine/internal/models"
)

// analysisFormat is the exact JSON shape providers are asked to reply
// with. It mirrors models.AnalysisResult.
const analysisFormat = `{
  "primaryEmotion": {
    "emotion": "joy",
    "percentage": 40.50
  },
  "secondaryEmotions": [
    {
      "emotion": "fear",
      "percentage": 30.50
    },
    {
      "emotion": "insecurity",
      "percentage": 29.00
    }
  ],
  "confidenceRating": 75,
  "summary": "A brief description of the detected emotions and the words that carried them"
}`

// BuildAnalysisPrompt assembles the single classification prompt sent
// verbatim to every provider: the allowed emotion set, the literal
// content, lexicon evidence (counts plus matched words), the output
// format example, and the instruction that the model's own judgment
// dominates while the JSON shape is binding.
func BuildAnalysisPrompt(content string, categories []models.EmotionCategory, associations []models.WordEmotionAssociation) string {
	labels := make([]string, 0, len(categories))
	for _, category := range categories {
		labels = append(labels, category.Emotion)
	}
	emotionsList := strings.Join(labels, ", ")
	if emotionsList == "" {
		emotionsList = "none"
	}

	filtered := FilterForPrompt(content, associations)
	counts := CountEmotions(content, categories, filtered)

	countParts := make([]string, 0, len(categories))
	for _, category := range categories {
		countParts = append(countParts, fmt.Sprintf("%s: %d", category.Emotion, counts[category.Emotion]))
	}
	countsString := strings.Join(countParts, ", ")
	if countsString == "" {
		countsString = "none"
	}

	wordParts := make([]string, 0, len(filtered))
	for _, assoc := range filtered {
		wordParts = append(wordParts, fmt.Sprintf("%s (%s)", assoc.Word, assoc.Emotion))
	}
	wordsString := strings.Join(wordParts, ", ")
	if wordsString == "" {
		wordsString = "none"
	}

	var b strings.Builder
	b.WriteString("Consider only the following emotions: [" + emotionsList + "] in the text: \"" + content + "\". ")
	b.WriteString("The content contains the following emotion counts based on the lexicon: " + countsString + ". ")
	b.WriteString("The following words are associated with emotions: " + wordsString + ". ")
	b.WriteString("Analyze and respond with a JSON object containing: primaryEmotion with its percentage, ")
	b.WriteString("secondaryEmotions with their percentages, confidenceRating (out of 100), and a summary ")
	b.WriteString("listing the associated words. Here's an example: \"" + analysisFormat + "\" ")
	b.WriteString("Your analysis should be the dominant result but keep to the format.")

	return b.String()
}
