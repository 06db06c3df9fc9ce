package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
)

// Handler wires the HTTP transport to the chatbot service.
type Handler struct {
	faqSvc faq.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc: faqSvc,
		logger: logger.With("component", "http.handler"),
	}
}

// ListPairs returns every stored question/answer pair.
func (h *Handler) ListPairs(c *gin.Context) {
	pairs, err := h.faqSvc.ListPairs(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	if pairs == nil {
		pairs = []faq.QAPair{}
	}
	c.JSON(http.StatusOK, pairs)
}

// AddPair stores a new question/answer pair.
func (h *Handler) AddPair(c *gin.Context) {
	var req faq.AddPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	pair, err := h.faqSvc.AddPair(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": pair.ID})
}

// ProcessMessage answers a chat message or asks the user to pick a question.
func (h *Handler) ProcessMessage(c *gin.Context) {
	var req faq.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.faqSvc.ProcessMessage(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// SelectSuggestedQuestion learns the user's pick and returns its answer.
func (h *Handler) SelectSuggestedQuestion(c *gin.Context) {
	var req faq.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.faqSvc.SelectSuggestedQuestion(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddAssociation inserts or bumps an association without an answer lookup.
func (h *Handler) AddAssociation(c *gin.Context) {
	var req faq.AssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	assoc, err := h.faqSvc.AddAssociation(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, assoc)
}

// ListAssociations returns every learned association.
func (h *Handler) ListAssociations(c *gin.Context) {
	associations, err := h.faqSvc.ListAssociations(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	if associations == nil {
		associations = []faq.QuestionAssociation{}
	}
	c.JSON(http.StatusOK, associations)
}

// Trending returns the most frequently sent messages.
func (h *Handler) Trending(c *gin.Context) {
	items, err := h.faqSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
