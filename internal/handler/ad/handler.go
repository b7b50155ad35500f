package ad

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cityhealth/directory-api/internal/handler"
	"github.com/cityhealth/directory-api/internal/model"
	"github.com/cityhealth/directory-api/internal/repository"
	adService "github.com/cityhealth/directory-api/internal/service/ad"
)

type Handler struct {
	service    adService.AdServicer
	outboxRepo repository.OutboxRepository
}

func NewHandler(service adService.AdServicer, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{service: service, outboxRepo: outboxRepo}
}

// RegisterPublicRoutes mounts the citizen-facing ad feed.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/ads", h.ListActive)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	providers := r.Group("/providers")
	{
		providers.POST("/:id/ads", h.CreateAd)
		providers.GET("/:id/ads", h.ListForProvider)
	}
	r.DELETE("/ads/:id", h.DeleteAd)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	ads := r.Group("/ads")
	{
		ads.GET("/pending", h.ListPending)
		ads.POST("/:id/review", h.Review)
	}
}

func (h *Handler) CreateAd(c *gin.Context) {
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

	var req model.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ad := &model.Ad{
		ProviderID: providerID,
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		TargetURL:  req.TargetURL,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
	}

	if err := h.service.CreateAd(c.Request.Context(), actor, ad); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.publishEvent(c, model.EventAdCreate, ad)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(ad))
}

func (h *Handler) DeleteAd(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid ad ID"))
		return
	}

	actor, ok := handler.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
		return
	}

	if err := h.service.DeleteAd(c.Request.Context(), actor, id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListActive(c *gin.Context) {
	ads, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(ads))
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

	ads, err := h.service.ListForProvider(c.Request.Context(), actor, providerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(ads))
}

func (h *Handler) ListPending(c *gin.Context) {
	ads, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(ads))
}

type reviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

func (h *Handler) Review(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid ad ID"))
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ad, err := h.service.Review(c.Request.Context(), id, req.Decision == "approve")
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.publishEvent(c, model.EventAdReview, ad)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ad))
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
