package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/deeppurple/emotion-engine/internal/models"
	"github.com/deeppurple/emotion-engine/internal/preprocess"
)

// EmotionAnalyzer is the core pipeline boundary.
type EmotionAnalyzer interface {
	Analyze(ctx context.Context, content, modelName string) (models.AnalysisResult, error)
}

// HistoryStore persists analyzed communications.
type HistoryStore interface {
	SaveCommunication(ctx context.Context, comm models.Communication) error
	GetCommunication(ctx context.Context, id string) (*models.Communication, error)
	ListCommunications(ctx context.Context) ([]models.Communication, error)
	DeleteCommunication(ctx context.Context, id string) error
}

// Cache short-circuits repeat analyses of identical content.
type Cache interface {
	CacheCommunication(ctx context.Context, key string, comm models.Communication) error
	GetCachedCommunication(ctx context.Context, key string) (models.Communication, bool)
}

// Publisher emits analyzed communications to downstream consumers.
type Publisher interface {
	PublishAnalyzed(comm models.Communication) error
}

// CommunicationService runs the full request path around the core
// analyzer: cache lookup, local baseline, analysis, persistence, event
// publication. Cache and publisher are optional.
type CommunicationService struct {
	analyzer  EmotionAnalyzer
	history   HistoryStore
	cache     Cache
	publisher Publisher
}

func NewCommunicationService(analyzer EmotionAnalyzer, history HistoryStore, cache Cache, publisher Publisher) *CommunicationService {
	return &CommunicationService{
		analyzer:  analyzer,
		history:   history,
		cache:     cache,
		publisher: publisher,
	}
}

// communicationID derives a stable ID from the model and content, so the
// same submission always maps to the same record and cache slot.
func communicationID(modelName, content string) string {
	hash := sha256.Sum256([]byte(modelName + ":" + content))
	return hex.EncodeToString(hash[:])
}

// AnalyzeAndSave analyzes content against the named model and persists
// the result.
func (s *CommunicationService) AnalyzeAndSave(ctx context.Context, content, modelName string) (models.Communication, error) {
	id := communicationID(modelName, content)

	if s.cache != nil {
		if cached, ok := s.cache.GetCachedCommunication(ctx, id); ok {
			slog.Info("[CommunicationService] cache hit",
				slog.String("id", id),
				slog.String("model", modelName))
			return cached, nil
		}
	}

	result, err := s.analyzer.Analyze(ctx, content, modelName)
	if err != nil {
		return models.Communication{}, err
	}

	score, label := preprocess.Baseline(content)

	comm := models.Communication{
		ID:                id,
		Content:           content,
		ModelName:         modelName,
		PrimaryEmotion:    result.PrimaryEmotion,
		SecondaryEmotions: result.SecondaryEmotions,
		ConfidenceRating:  float64(result.ConfidenceRating),
		Summary:           result.Summary,
		ModelVersion:      result.ModelVersion,
		LocalScore:        score,
		LocalLabel:        label,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.history.SaveCommunication(ctx, comm); err != nil {
		return models.Communication{}, err
	}

	if s.cache != nil {
		if err := s.cache.CacheCommunication(ctx, id, comm); err != nil {
			slog.Warn("[CommunicationService] failed to cache result",
				slog.String("id", id),
				slog.String("error", err.Error()))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAnalyzed(comm); err != nil {
			slog.Warn("[CommunicationService] failed to publish event",
				slog.String("id", id),
				slog.String("error", err.Error()))
		}
	}

	return comm, nil
}

func (s *CommunicationService) GetCommunication(ctx context.Context, id string) (*models.Communication, error) {
	return s.history.GetCommunication(ctx, id)
}

func (s *CommunicationService) ListCommunications(ctx context.Context) ([]models.Communication, error) {
	return s.history.ListCommunications(ctx)
}

func (s *CommunicationService) DeleteCommunication(ctx context.Context, id string) error {
	return s.history.DeleteCommunication(ctx, id)
}
