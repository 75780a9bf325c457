package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deeppurple/emotion-engine/internal/service"
)

// NewRouter wires the HTTP surface: communications on top of the
// analysis pipeline, lexicon management on the store.
func NewRouter(comms *service.CommunicationService, lex LexiconAdmin) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	h := &handlers{comms: comms, lexicon: lex}

	r.GET("/healthz", h.health)

	r.POST("/communications", h.analyzeCommunication)
	r.GET("/communications", h.listCommunications)
	r.GET("/communications/:id", h.getCommunication)
	r.DELETE("/communications/:id", h.deleteCommunication)

	r.GET("/models", h.listModels)
	r.POST("/models", h.createModel)
	r.GET("/models/:name", h.getModel)

	r.POST("/emotion/category", h.createCategory)
	r.PUT("/emotion/category/:id", h.updateCategory)
	r.DELETE("/emotion/category/:id", h.deleteCategory)
	r.POST("/emotion/word-association", h.createAssociation)
	r.GET("/emotion/word-associations/:model", h.listAssociations)
	r.DELETE("/emotion/word-association/:id", h.deleteAssociation)

	return r
}
