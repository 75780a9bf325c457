package lexicon

import (
	"context"
	"errors"

	"github.com/deeppurple/emotion-engine/internal/models"
)

var (
	// ErrModelNotFound is returned when no model with the requested name
	// exists.
	ErrModelNotFound = errors.New("model not found")

	// ErrEmptyTaxonomy is returned when a model has no emotion
	// categories to classify against.
	ErrEmptyTaxonomy = errors.New("model has no emotion categories")
)

// Store is the lexicon's read/write contract. The analysis path only ever
// reads and appends; it never updates or deletes associations. Concurrent
// requests may discover overlapping vocabulary, so SaveAssociations must
// treat (word, category) duplicates as a benign conflict.
type Store interface {
	// FindModelByName returns the model with its categories loaded, or
	// nil when no such model exists.
	FindModelByName(ctx context.Context, name string) (*models.Model, error)
	FindAssociationsByCategories(ctx context.Context, categories []models.EmotionCategory) ([]models.WordEmotionAssociation, error)
	SaveAssociations(ctx context.Context, associations []models.WordEmotionAssociation) error
}
