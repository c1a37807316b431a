package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"faqbot/internal/corpus"
	"faqbot/internal/domain"
)

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

// ChatHandler serves the question/answer endpoints.
type ChatHandler struct {
	answerer domain.Answerer
}

func NewChatHandler(answerer domain.Answerer) *ChatHandler {
	return &ChatHandler{answerer: answerer}
}

// Chat answers one question and returns the ChatOutcome.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("question must not be blank"))
		return
	}
	RespondOK(c, h.answerer.Answer(c.Request.Context(), req.Question))
}

// CatalogHandler exposes the loaded knowledge base.
type CatalogHandler struct {
	store *corpus.Store
}

func NewCatalogHandler(store *corpus.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// FAQs lists the records, optionally filtered by ?category=.
func (h *CatalogHandler) FAQs(c *gin.Context) {
	records := h.store.All()
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		records = h.store.ByCategory(cat)
	}
	if records == nil {
		records = []domain.FAQRecord{}
	}
	RespondOK(c, gin.H{"count": len(records), "faqs": records})
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	RespondOK(c, gin.H{"categories": h.store.Categories()})
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
