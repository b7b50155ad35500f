package verification

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cityhealth/directory-api/internal/handler"
	"github.com/cityhealth/directory-api/internal/model"
	"github.com/cityhealth/directory-api/internal/repository"
	verificationService "github.com/cityhealth/directory-api/internal/service/verification"
)

type Handler struct {
	service    verificationService.VerificationServicer
	outboxRepo repository.OutboxRepository
}

func NewHandler(service verificationService.VerificationServicer, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{service: service, outboxRepo: outboxRepo}
}

// RegisterRoutes mounts the provider-facing verification endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	providers := r.Group("/providers")
	{
		providers.POST("/:id/verification", h.Submit)
		providers.GET("/:id/verification", h.ListForProvider)
	}
}

// RegisterAdminRoutes mounts the review queue.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	verifications := r.Group("/verifications")
	{
		verifications.GET("", h.ListPending)
		verifications.POST("/:id/review", h.Review)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	actor, ok := handler.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
		return
	}

	var req model.SubmitVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	request, err := h.service.Submit(c.Request.Context(), actor, providerID, req.DocumentType, req.DocumentURLs)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.publishEvent(c, model.EventVerificationSubmit, request)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(request))
}

func (h *Handler) Review(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request ID"))
		return
	}

	reviewerID, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid reviewer ID"))
		return
	}

	var req model.ReviewVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	request, err := h.service.Review(c.Request.Context(), requestID,
		model.ReviewDecision(req.Decision), req.Reason, reviewerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.publishEvent(c, model.EventVerificationReview, request)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(request))
}

func (h *Handler) ListPending(c *gin.Context) {
	requests, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) ListForProvider(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	actor, ok := handler.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
		return
	}

	requests, err := h.service.ListForProvider(c.Request.Context(), actor, providerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) publishEvent(c *gin.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("Failed to marshal event payload")
		return
	}
	if err := h.outboxRepo.Create(c.Request.Context(), &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("Failed to create outbox event")
	}
}
