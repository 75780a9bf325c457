package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/deeppurple/emotion-engine/internal/db"
	"github.com/deeppurple/emotion-engine/internal/models"
)

//go:embed lexicons/*.json
var lexiconFS embed.FS

var builtinModels = []struct {
	name string
	file string
}{
	{"GeneralModel", "lexicons/lexicon_general.json"},
	{"FinanceModel", "lexicons/lexicon_finance.json"},
	{"SocialModel", "lexicons/lexicon_social.json"},
}

// Run seeds the predefined models from the embedded lexicon files. It
// only acts on an empty database; existing installs are never reseeded.
func Run(ctx context.Context, store *db.LexiconStore) error {
	count, err := store.CountModels(ctx)
	if err != nil {
		return fmt.Errorf("counting models: %w", err)
	}
	if count > 0 {
		slog.Debug("[Seeder] models already present, skipping seed")
		return nil
	}

	for _, builtin := range builtinModels {
		if err := seedModel(ctx, store, builtin.name, builtin.file); err != nil {
			return fmt.Errorf("seeding %s: %w", builtin.name, err)
		}
	}

	return nil
}

// Lexicon files map each word to the emotions it evidences.
func seedModel(ctx context.Context, store *db.LexiconStore, name, file string) error {
	data, err := lexiconFS.ReadFile(file)
	if err != nil {
		return err
	}

	var lexicon map[string][]string
	if err := json.Unmarshal(data, &lexicon); err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}

	model, err := store.CreateModel(ctx, name, true)
	if err != nil {
		return err
	}

	categories := make(map[string]*models.EmotionCategory)
	var associations []models.WordEmotionAssociation

	for word, emotions := range lexicon {
		for _, emotion := range emotions {
			category, ok := categories[emotion]
			if !ok {
				category, err = store.CreateCategory(ctx, model.ID, emotion, true)
				if err != nil {
					return err
				}
				categories[emotion] = category
			}

			associations = append(associations, models.WordEmotionAssociation{
				EmotionCategoryID: category.ID,
				Word:              word,
				Emotion:           emotion,
				Predefined:        true,
			})
		}
	}

	if err := store.SaveAssociations(ctx, associations); err != nil {
		return err
	}

	slog.Info("[Seeder] seeded model",
		slog.String("model", name),
		slog.Int("categories", len(categories)),
		slog.Int("words", len(associations)))
	return nil
}
