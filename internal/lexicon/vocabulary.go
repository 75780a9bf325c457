package lexicon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/deeppurple/emotion-engine/internal/models"
	"github.com/deeppurple/emotion-engine/internal/providers"
)

// Expander keeps a model's lexicon growing: any token of incoming content
// the lexicon has never seen is classified by a language model and
// persisted as a new association. The classifier backend is fixed (one
// provider), independent of the analysis fan-out.
type Expander struct {
	store      Store
	classifier providers.Provider
}

func NewExpander(store Store, classifier providers.Provider) *Expander {
	return &Expander{store: store, classifier: classifier}
}

// EnsureVocabulary detects the gap set of content against the named
// model's known words and classifies and stores every gap token that has
// an emotional association. It must complete before analysis is allowed
// to build its prompt, because the prompt folds in lexicon state this
// step may have just written. An empty gap set is a successful no-op.
func (e *Expander) EnsureVocabulary(ctx context.Context, content, modelName string) error {
	model, err := e.store.FindModelByName(ctx, modelName)
	if err != nil {
		return err
	}
	if model == nil {
		return fmt.Errorf("%w: %s", ErrModelNotFound, modelName)
	}
	if len(model.EmotionCategories) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyTaxonomy, modelName)
	}

	associations, err := e.store.FindAssociationsByCategories(ctx, model.EmotionCategories)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(associations))
	for _, assoc := range associations {
		known[assoc.Word] = struct{}{}
	}

	var gap []string
	for _, tok := range ExtractTokens(content) {
		if _, ok := known[tok]; !ok {
			gap = append(gap, tok)
		}
	}
	if len(gap) == 0 {
		slog.Debug("[Vocabulary] no new words or emojis found",
			slog.String("model", modelName))
		return nil
	}

	slog.Info("[Vocabulary] classifying unseen tokens",
		slog.String("model", modelName),
		slog.Int("gap_size", len(gap)))

	raw, err := e.classifier.Classify(ctx, classificationPrompt(gap, model.EmotionCategories))
	if err != nil {
		return err
	}

	pairs, err := parseWordEmotions(raw)
	if err != nil {
		return err
	}

	newAssociations := resolveAssociations(pairs, model.EmotionCategories)
	if len(newAssociations) == 0 {
		return nil
	}

	return e.store.SaveAssociations(ctx, newAssociations)
}

func classificationPrompt(gap []string, categories []models.EmotionCategory) string {
	labels := make([]string, 0, len(categories))
	for _, category := range categories {
		labels = append(labels, category.Emotion)
	}

	return "Analyze and identify the most appropriate emotion for each of the following abbreviations, " +
		"words or emojis based on the given emotions: " + strings.Join(labels, ", ") +
		".\nWords/Emojis: " + strings.Join(gap, ", ") +
		".\nIgnore common stop words (e.g., \"and\", \"the\", \"me\", \"also\", \"my\", \"with\") and numbers." +
		"\nOnly return words, emojis, or abbreviations that have an emotional association. " +
		"\nFormat your response as a JSON array: " +
		`[{"word": "word1", "emotion": "emotion1"}, {"word": "word2", "emotion": "emotion2"}].`
}

// parseWordEmotions decodes the classifier's reply, which must be a JSON
// array of {word, emotion} pairs, possibly wrapped in a markdown fence.
func parseWordEmotions(raw string) ([]models.WordEmotion, error) {
	cleaned := providers.StripFence(raw)

	var pairs []models.WordEmotion
	if err := json.Unmarshal([]byte(cleaned), &pairs); err != nil {
		return nil, fmt.Errorf("%w: expected JSON array of word/emotion pairs: %v",
			providers.ErrMalformedOutput, err)
	}

	return pairs, nil
}

// resolveAssociations maps classified pairs onto the model's categories
// by case-insensitive label match. Pairs naming an unknown emotion are
// dropped, not treated as an error; the classifier is free-text and
// drifts.
func resolveAssociations(pairs []models.WordEmotion, categories []models.EmotionCategory) []models.WordEmotionAssociation {
	var resolved []models.WordEmotionAssociation
	for _, pair := range pairs {
		matched := false
		for _, category := range categories {
			if strings.EqualFold(category.Emotion, pair.Emotion) {
				resolved = append(resolved, models.WordEmotionAssociation{
					EmotionCategoryID: category.ID,
					Word:              pair.Word,
					Emotion:           category.Emotion,
					Predefined:        false,
				})
				matched = true
				break
			}
		}
		if !matched {
			slog.Debug("[Vocabulary] dropping pair with unknown emotion",
				slog.String("word", pair.Word),
				slog.String("emotion", pair.Emotion))
		}
	}

	return resolved
}
