package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeppurple/emotion-engine/internal/lexicon"
	"github.com/deeppurple/emotion-engine/internal/models"
	"github.com/deeppurple/emotion-engine/internal/providers"
)

type memStore struct {
	model        *models.Model
	associations []models.WordEmotionAssociation
}

func (m *memStore) FindModelByName(_ context.Context, name string) (*models.Model, error) {
	if m.model == nil || m.model.Name != name {
		return nil, nil
	}
	return m.model, nil
}

func (m *memStore) FindAssociationsByCategories(_ context.Context, _ []models.EmotionCategory) ([]models.WordEmotionAssociation, error) {
	return m.associations, nil
}

func (m *memStore) SaveAssociations(_ context.Context, associations []models.WordEmotionAssociation) error {
	m.associations = append(m.associations, associations...)
	return nil
}

// stubProvider replies with canned JSON, or fails.
type stubProvider struct {
	name    string
	version string
	reply   string
	err     error
	calls   atomic.Int32
}

func (s *stubProvider) Name() string         { return s.name }
func (s *stubProvider) ModelVersion() string { return s.version }

func (s *stubProvider) Classify(_ context.Context, _ string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", &providers.ProviderError{Provider: s.name, Err: s.err}
	}
	return s.reply, nil
}

func analysisJSON(confidence float64) string {
	return fmt.Sprintf(`{
        "primaryEmotion": {"emotion": "Joy", "percentage": 60},
        "secondaryEmotions": [{"emotion": "Sadness", "percentage": 40}],
        "confidenceRating": %v,
        "summary": "mostly joyful",
        "modelVersion": "self-reported"
    }`, confidence)
}

func knownModel() *memStore {
	return &memStore{
		model: &models.Model{
			ID:   1,
			Name: "M",
			EmotionCategories: []models.EmotionCategory{
				{ID: 10, ModelID: 1, Emotion: "Joy"},
				{ID: 11, ModelID: 1, Emotion: "Sadness"},
			},
		},
		associations: []models.WordEmotionAssociation{
			{Word: "happy", Emotion: "Joy", EmotionCategoryID: 10},
			{Word: "I", Emotion: "Joy", EmotionCategoryID: 10},
			{Word: "am", Emotion: "Joy", EmotionCategoryID: 10},
			{Word: "today", Emotion: "Joy", EmotionCategoryID: 10},
		},
	}
}

func newAnalyzer(store lexicon.Store, classifier providers.Provider, provs []providers.Provider, opts ...Option) *Analyzer {
	return New(store, lexicon.NewExpander(store, classifier), provs, opts...)
}

func TestAnalyzeSelectsHighestConfidenceProvider(t *testing.T) {
	store := knownModel()
	classifier := &stubProvider{name: "openai", version: "gpt-4o-mini", reply: "[]"}
	provs := []providers.Provider{
		&stubProvider{name: "openai", version: "gpt-4o-mini", reply: analysisJSON(80)},
		&stubProvider{name: "gemini", version: "gemini-1.5-flash", reply: analysisJSON(95)},
		&stubProvider{name: "mistral", version: "mistral-small-latest", reply: analysisJSON(70)},
	}

	a := newAnalyzer(store, classifier, provs)
	result, err := a.Analyze(context.Background(), "I am happy today", "M")
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash", result.ModelVersion)
	assert.EqualValues(t, 95, result.ConfidenceRating)
	assert.Equal(t, "Joy", result.PrimaryEmotion.Emotion)
}

func TestAnalyzeModelVersionIsAlwaysFromClosedSet(t *testing.T) {
	store := knownModel()
	classifier := &stubProvider{name: "openai", version: "gpt-4o-mini", reply: "[]"}
	identifiers := map[string]bool{
		"gpt-4o-mini":          true,
		"gemini-1.5-flash":     true,
		"mistral-small-latest": true,
	}

	for _, winner := range []int{0, 1, 2} {
		confidences := []float64{10, 10, 10}
		confidences[winner] = 99

		provs := []providers.Provider{
			&stubProvider{name: "openai", version: "gpt-4o-mini", reply: analysisJSON(confidences[0])},
			&stubProvider{name: "gemini", version: "gemini-1.5-flash", reply: analysisJSON(confidences[1])},
			&stubProvider{name: "mistral", version: "mistral-small-latest", reply: analysisJSON(confidences[2])},
		}

		a := newAnalyzer(store, classifier, provs)
		result, err := a.Analyze(context.Background(), "I am happy today", "M")
		require.NoError(t, err)
		assert.True(t, identifiers[result.ModelVersion],
			"modelVersion %q is not a fixed provider identifier", result.ModelVersion)
		assert.NotEqual(t, "self-reported", result.ModelVersion)
	}
}

func TestAnalyzeAllProvidersUnreachable(t *testing.T) {
	store := knownModel()
	classifier := &stubProvider{name: "openai", version: "gpt-4o-mini", reply: "[]"}
	down := errors.New("connection refused")
	provs := []providers.Provider{
		&stubProvider{name: "openai", version: "gpt-4o-mini", err: down},
		&stubProvider{name: "gemini", version: "gemini-1.5-flash", err: down},
		&stubProvider{name: "mistral", version: "mistral-small-latest", err: down},
	}

	a := newAnalyzer(store, classifier, provs)
	_, err := a.Analyze(context.Background(), "I am happy today", "M")

	var provErr *providers.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "openai", provErr.Provider, "failure references the first adapter in precedence order")
}

func TestAnalyzeSingleFailureFailsRequest(t *testing.T) {
	store := knownModel()
	classifier := &stubProvider{name: "openai", version: "gpt-4o-mini", reply: "[]"}
	provs := []providers.Provider{
		&stubProvider{name: "openai", version: "gpt-4o-mini", reply: analysisJSON(80)},
		&stubProvider{name: "gemini", version: "gemini-1.5-flash", err: errors.New("timeout")},
		&stubProvider{name: "mistral", version: "mistral-small-latest", reply: analysisJSON(70)},
	}

	a := newAnalyzer(store, classifier, provs)
	_, err := a.Analyze(context.Background(), "I am happy today", "M")

	var provErr *providers.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "gemini", provErr.Provider)
}

func TestAnalyzeMalformedProviderJSON(t *testing.T) {
	store := knownModel()
	classifier := &stubProvider{name: "openai", version: "gpt-4o-mini", reply: "[]"}
	provs := []providers.Provider{
		&stubProvider{name: "openai", version: "gpt-4o-mini", reply: analysisJSON(80)},
		&stubProvider{name: "gemini", version: "gemini-1.5-flash", reply: "the dog ate my JSON"},
		&stubProvider{name: "mistral", version: "mistral-small-latest", reply: analysisJSON(70)},
	}

	a := newAnalyzer(store, classifier, provs)
	_, err := a.Analyze(context.Background(), "I am happy today", "M")
	assert.ErrorIs(t, err, providers.ErrMalformedOutput)
}

func TestAnalyzeVocabularyRunsBeforeFanOut(t *testing.T) {
	store := knownModel()
	// "yay" is unknown; the classifier files it under Joy before the
	// fan-out builds its prompt.
	classifier := &stubProvider{name: "openai", version: "gpt-4o-mini",
		reply: `[{"word":"yay","emotion":"Joy"}]`}
	provs := []providers.Provider{
		&stubProvider{name: "openai", version: "gpt-4o-mini", reply: analysisJSON(80)},
		&stubProvider{name: "gemini", version: "gemini-1.5-flash", reply: analysisJSON(60)},
		&stubProvider{name: "mistral", version: "mistral-small-latest", reply: analysisJSON(70)},
	}

	a := newAnalyzer(store, classifier, provs)
	_, err := a.Analyze(context.Background(), "yay", "M")
	require.NoError(t, err)

	assert.EqualValues(t, 1, classifier.calls.Load())

	var words []string
	for _, assoc := range store.associations {
		words = append(words, assoc.Word)
	}
	assert.Contains(t, words, "yay")
}

func TestAnalyzeQuorumModeToleratesOneFailure(t *testing.T) {
	store := knownModel()
	classifier := &stubProvider{name: "openai", version: "gpt-4o-mini", reply: "[]"}
	provs := []providers.Provider{
		&stubProvider{name: "openai", version: "gpt-4o-mini", err: errors.New("down")},
		&stubProvider{name: "gemini", version: "gemini-1.5-flash", reply: analysisJSON(60)},
		&stubProvider{name: "mistral", version: "mistral-small-latest", reply: analysisJSON(70)},
	}

	a := newAnalyzer(store, classifier, provs, WithMergePolicy(Quorum{Min: 2}))
	result, err := a.Analyze(context.Background(), "I am happy today", "M")
	require.NoError(t, err)
	assert.Equal(t, "mistral-small-latest", result.ModelVersion)
}

func TestAnalyzeUnknownModel(t *testing.T) {
	a := newAnalyzer(&memStore{}, &stubProvider{name: "openai"}, nil)
	_, err := a.Analyze(context.Background(), "hello", "nope")
	assert.ErrorIs(t, err, lexicon.ErrModelNotFound)
}
