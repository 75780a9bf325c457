package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deeppurple/emotion-engine/internal/models"
)

// ErrPredefined is returned when a mutation targets a predefined row.
var ErrPredefined = errors.New("predefined entries cannot be modified")

// LexiconStore implements lexicon.Store over PostgreSQL.
type LexiconStore struct {
	db *pgxpool.Pool
}

func NewLexiconStore(pool *pgxpool.Pool) *LexiconStore {
	return &LexiconStore{db: pool}
}

// FindModelByName loads a model and its categories, or returns nil when
// the name is unknown.
func (s *LexiconStore) FindModelByName(ctx context.Context, name string) (*models.Model, error) {
	var model models.Model
	err := s.db.QueryRow(ctx,
		`SELECT id, name, predefined FROM models WHERE name = $1`, name,
	).Scan(&model.ID, &model.Name, &model.Predefined)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying model %q: %w", name, err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, model_id, emotion, predefined
         FROM emotion_categories WHERE model_id = $1 ORDER BY id`, model.ID)
	if err != nil {
		return nil, fmt.Errorf("querying categories for model %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.EmotionCategory
		if err := rows.Scan(&category.ID, &category.ModelID, &category.Emotion, &category.Predefined); err != nil {
			return nil, err
		}
		model.EmotionCategories = append(model.EmotionCategories, category)
	}

	return &model, rows.Err()
}

func (s *LexiconStore) FindAssociationsByCategories(ctx context.Context, categories []models.EmotionCategory) ([]models.WordEmotionAssociation, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(categories))
	for _, category := range categories {
		ids = append(ids, category.ID)
	}

	rows, err := s.db.Query(ctx,
		`SELECT w.id, w.emotion_category_id, w.word, w.predefined, c.emotion
         FROM word_emotion_associations w
         JOIN emotion_categories c ON c.id = w.emotion_category_id
         WHERE w.emotion_category_id = ANY($1)
         ORDER BY w.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying associations: %w", err)
	}
	defer rows.Close()

	var associations []models.WordEmotionAssociation
	for rows.Next() {
		var assoc models.WordEmotionAssociation
		if err := rows.Scan(&assoc.ID, &assoc.EmotionCategoryID, &assoc.Word, &assoc.Predefined, &assoc.Emotion); err != nil {
			return nil, err
		}
		associations = append(associations, assoc)
	}

	return associations, rows.Err()
}

// SaveAssociations batch-inserts associations. Concurrent requests can
// discover the same word at the same time, so (word, category) conflicts
// are swallowed rather than surfaced.
func (s *LexiconStore) SaveAssociations(ctx context.Context, associations []models.WordEmotionAssociation) error {
	if len(associations) == 0 {
		return nil
	}

	query := `INSERT INTO word_emotion_associations (word, emotion_category_id, predefined) VALUES `

	values := []interface{}{}
	placeholderParts := []string{}
	for i, assoc := range associations {
		offset := i * 3
		placeholderParts = append(placeholderParts,
			fmt.Sprintf("($%d, $%d, $%d)", offset+1, offset+2, offset+3))
		values = append(values, assoc.Word, assoc.EmotionCategoryID, assoc.Predefined)
	}

	query += strings.Join(placeholderParts, ", ")
	query += ` ON CONFLICT (word, emotion_category_id) DO NOTHING`

	if _, err := s.db.Exec(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to insert associations: %w", err)
	}

	return nil
}

// ListModels returns all models without their categories.
func (s *LexiconStore) ListModels(ctx context.Context) ([]models.Model, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, predefined FROM models ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Model
	for rows.Next() {
		var model models.Model
		if err := rows.Scan(&model.ID, &model.Name, &model.Predefined); err != nil {
			return nil, err
		}
		out = append(out, model)
	}

	return out, rows.Err()
}

func (s *LexiconStore) CountModels(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM models`).Scan(&count)
	return count, err
}

func (s *LexiconStore) CreateModel(ctx context.Context, name string, predefined bool) (*models.Model, error) {
	model := models.Model{Name: name, Predefined: predefined}
	err := s.db.QueryRow(ctx,
		`INSERT INTO models (name, predefined) VALUES ($1, $2) RETURNING id`,
		name, predefined,
	).Scan(&model.ID)
	if err != nil {
		return nil, fmt.Errorf("creating model %q: %w", name, err)
	}
	return &model, nil
}

// CreateCategory adds an emotion category. Predefined models only accept
// predefined categories, which the seeder is the sole source of.
func (s *LexiconStore) CreateCategory(ctx context.Context, modelID int64, emotion string, predefined bool) (*models.EmotionCategory, error) {
	if !predefined {
		var modelPredefined bool
		err := s.db.QueryRow(ctx,
			`SELECT predefined FROM models WHERE id = $1`, modelID,
		).Scan(&modelPredefined)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("model %d not found", modelID)
		}
		if err != nil {
			return nil, err
		}
		if modelPredefined {
			return nil, fmt.Errorf("cannot add category to predefined model %d: %w", modelID, ErrPredefined)
		}
	}

	category := models.EmotionCategory{ModelID: modelID, Emotion: emotion, Predefined: predefined}
	err := s.db.QueryRow(ctx,
		`INSERT INTO emotion_categories (model_id, emotion, predefined)
         VALUES ($1, $2, $3) RETURNING id`,
		modelID, emotion, predefined,
	).Scan(&category.ID)
	if err != nil {
		return nil, fmt.Errorf("creating category %q: %w", emotion, err)
	}
	return &category, nil
}

// UpdateCategory renames a non-predefined category.
func (s *LexiconStore) UpdateCategory(ctx context.Context, id int64, emotion string) (*models.EmotionCategory, error) {
	var category models.EmotionCategory
	err := s.db.QueryRow(ctx,
		`SELECT id, model_id, emotion, predefined FROM emotion_categories WHERE id = $1`, id,
	).Scan(&category.ID, &category.ModelID, &category.Emotion, &category.Predefined)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("category %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	if category.Predefined {
		return nil, ErrPredefined
	}

	if _, err := s.db.Exec(ctx,
		`UPDATE emotion_categories SET emotion = $1 WHERE id = $2`, emotion, id); err != nil {
		return nil, fmt.Errorf("updating category %d: %w", id, err)
	}
	category.Emotion = emotion
	return &category, nil
}

// DeleteCategory removes a non-predefined category; its associations go
// with it through the schema's cascade.
func (s *LexiconStore) DeleteCategory(ctx context.Context, id int64) error {
	var predefined bool
	err := s.db.QueryRow(ctx,
		`SELECT predefined FROM emotion_categories WHERE id = $1`, id,
	).Scan(&predefined)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("category %d not found", id)
	}
	if err != nil {
		return err
	}
	if predefined {
		return ErrPredefined
	}

	_, err = s.db.Exec(ctx, `DELETE FROM emotion_categories WHERE id = $1`, id)
	return err
}

// CreateAssociation manually ties a word to a category. Predefined
// categories are closed to manual edits; only vocabulary discovery
// (SaveAssociations) may grow them.
func (s *LexiconStore) CreateAssociation(ctx context.Context, word string, categoryID int64) (*models.WordEmotionAssociation, error) {
	var categoryPredefined bool
	err := s.db.QueryRow(ctx,
		`SELECT predefined FROM emotion_categories WHERE id = $1`, categoryID,
	).Scan(&categoryPredefined)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("category %d not found", categoryID)
	}
	if err != nil {
		return nil, err
	}
	if categoryPredefined {
		return nil, fmt.Errorf("cannot associate words with predefined category %d: %w", categoryID, ErrPredefined)
	}

	assoc := models.WordEmotionAssociation{Word: word, EmotionCategoryID: categoryID}
	err = s.db.QueryRow(ctx,
		`INSERT INTO word_emotion_associations (word, emotion_category_id, predefined)
         VALUES ($1, $2, false)
         ON CONFLICT (word, emotion_category_id) DO NOTHING
         RETURNING id`,
		word, categoryID,
	).Scan(&assoc.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("association %q already exists for category %d", word, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("creating association %q: %w", word, err)
	}
	return &assoc, nil
}

// DeleteAssociation removes a non-predefined association.
func (s *LexiconStore) DeleteAssociation(ctx context.Context, id int64) error {
	var predefined bool
	err := s.db.QueryRow(ctx,
		`SELECT predefined FROM word_emotion_associations WHERE id = $1`, id,
	).Scan(&predefined)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("association %d not found", id)
	}
	if err != nil {
		return err
	}
	if predefined {
		return ErrPredefined
	}

	_, err = s.db.Exec(ctx, `DELETE FROM word_emotion_associations WHERE id = $1`, id)
	return err
}
