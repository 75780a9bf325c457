package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deeppurple/emotion-engine/internal/db"
	"github.com/deeppurple/emotion-engine/internal/lexicon"
	"github.com/deeppurple/emotion-engine/internal/models"
	"github.com/deeppurple/emotion-engine/internal/providers"
	"github.com/deeppurple/emotion-engine/internal/service"
)

// LexiconAdmin is the lexicon management surface the HTTP layer exposes.
// *db.LexiconStore implements it.
type LexiconAdmin interface {
	FindModelByName(ctx context.Context, name string) (*models.Model, error)
	FindAssociationsByCategories(ctx context.Context, categories []models.EmotionCategory) ([]models.WordEmotionAssociation, error)
	ListModels(ctx context.Context) ([]models.Model, error)
	CreateModel(ctx context.Context, name string, predefined bool) (*models.Model, error)
	CreateCategory(ctx context.Context, modelID int64, emotion string, predefined bool) (*models.EmotionCategory, error)
	UpdateCategory(ctx context.Context, id int64, emotion string) (*models.EmotionCategory, error)
	DeleteCategory(ctx context.Context, id int64) error
	CreateAssociation(ctx context.Context, word string, categoryID int64) (*models.WordEmotionAssociation, error)
	DeleteAssociation(ctx context.Context, id int64) error
}

type handlers struct {
	comms   *service.CommunicationService
	lexicon LexiconAdmin
}

type analyzeRequest struct {
	Content   string `json:"content" binding:"required,max=1000"`
	ModelName string `json:"modelName" binding:"required"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps core error kinds onto HTTP statuses. Provider failures
// are upstream problems, not client mistakes.
func statusFor(err error) int {
	var provErr *providers.ProviderError
	switch {
	case errors.Is(err, lexicon.ErrModelNotFound):
		return http.StatusNotFound
	case errors.Is(err, lexicon.ErrEmptyTaxonomy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, providers.ErrMalformedOutput):
		return http.StatusBadGateway
	case errors.As(err, &provErr):
		return http.StatusBadGateway
	case errors.Is(err, db.ErrPredefined):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) analyzeCommunication(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comm, err := h.comms.AnalyzeAndSave(c.Request.Context(), req.Content, req.ModelName)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, comm)
}

func (h *handlers) listCommunications(c *gin.Context) {
	comms, err := h.comms.ListCommunications(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comms)
}

func (h *handlers) getCommunication(c *gin.Context) {
	comm, err := h.comms.GetCommunication(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if comm == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "communication not found"})
		return
	}
	c.JSON(http.StatusOK, comm)
}

func (h *handlers) deleteCommunication(c *gin.Context) {
	if err := h.comms.DeleteCommunication(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listModels(c *gin.Context) {
	out, err := h.lexicon.ListModels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) getModel(c *gin.Context) {
	model, err := h.lexicon.FindModelByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "model not found"})
		return
	}
	c.JSON(http.StatusOK, model)
}

type createModelRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *handlers) createModel(c *gin.Context) {
	var req createModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, err := h.lexicon.CreateModel(c.Request.Context(), req.Name, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, model)
}

type createCategoryRequest struct {
	ModelID int64  `json:"modelId" binding:"required"`
	Emotion string `json:"emotion" binding:"required"`
}

func (h *handlers) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.lexicon.CreateCategory(c.Request.Context(), req.ModelID, req.Emotion, false)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Emotion string `json:"emotion" binding:"required"`
}

func (h *handlers) updateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.lexicon.UpdateCategory(c.Request.Context(), id, req.Emotion)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *handlers) deleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	if err := h.lexicon.DeleteCategory(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type createAssociationRequest struct {
	Word              string `json:"word" binding:"required"`
	EmotionCategoryID int64  `json:"emotionCategoryId" binding:"required"`
}

func (h *handlers) createAssociation(c *gin.Context) {
	var req createAssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assoc, err := h.lexicon.CreateAssociation(c.Request.Context(), req.Word, req.EmotionCategoryID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, assoc)
}

func (h *handlers) listAssociations(c *gin.Context) {
	model, err := h.lexicon.FindModelByName(c.Request.Context(), c.Param("model"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "model not found"})
		return
	}

	associations, err := h.lexicon.FindAssociationsByCategories(c.Request.Context(), model.EmotionCategories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, associations)
}

func (h *handlers) deleteAssociation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid association id"})
		return
	}

	if err := h.lexicon.DeleteAssociation(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
