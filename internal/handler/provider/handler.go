package provider

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cityhealth/directory-api/internal/handler"
	"github.com/cityhealth/directory-api/internal/model"
	"github.com/cityhealth/directory-api/internal/repository"
	providerService "github.com/cityhealth/directory-api/internal/service/provider"
)

type Handler struct {
	service    providerService.ProviderServicer
	outboxRepo repository.OutboxRepository
}

func NewHandler(service providerService.ProviderServicer, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{service: service, outboxRepo: outboxRepo}
}

// RegisterPublicRoutes mounts the citizen-facing directory endpoints.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	providers := r.Group("/providers")
	{
		providers.GET("", h.ListProviders)
		providers.GET("/search", h.SearchProviders)
		providers.GET("/:id", h.GetProvider)
	}
}

// RegisterRoutes mounts the authenticated provider-management endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	providers := r.Group("/providers")
	{
		providers.POST("", h.CreateProvider)
		providers.PUT("/:id", h.UpdateProvider)
		providers.POST("/:id/claim", h.ClaimProvider)
		providers.POST("/:id/photos", h.AddPhoto)
		providers.DELETE("/:id/photos", h.RemovePhoto)
		providers.GET("/mine", h.ListOwnProviders)
	}
}

// RegisterAdminRoutes mounts the moderation endpoints.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	providers := r.Group("/providers")
	{
		providers.DELETE("/:id", h.DeleteProvider)
		providers.POST("/import", h.ImportProviders)
	}
}

func (h *Handler) CreateProvider(c *gin.Context) {
	var req model.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID, _ := uuid.Parse(c.GetString("userID"))

	provider := &model.Provider{
		ProviderType:          model.ProviderType(req.ProviderType),
		SpecialtyID:           req.SpecialtyID,
		BusinessName:          req.BusinessName,
		Phone:                 req.Phone,
		Email:                 req.Email,
		Address:               req.Address,
		City:                  req.City,
		Latitude:              req.Latitude,
		Longitude:             req.Longitude,
		Description:           req.Description,
		Website:               req.Website,
		Photos:                []string{},
		IsEmergency:           req.IsEmergency,
		AccessibilityFeatures: req.AccessibilityFeatures,
		HomeVisitAvailable:    req.HomeVisitAvailable,
	}
	if userID != uuid.Nil {
		provider.OwnerUserID = &userID
		provider.IsClaimed = true
	}
	if provider.AccessibilityFeatures == nil {
		provider.AccessibilityFeatures = []string{}
	}

	if err := h.service.CreateProvider(c.Request.Context(), provider); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.publishEvent(c, model.EventProviderCreate, provider)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(provider))
}

func (h *Handler) GetProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	provider, err := h.service.GetProvider(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(provider))
}

func (h *Handler) UpdateProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	provider, err := h.service.GetProvider(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if !h.canManage(c, provider) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("not the owner of this listing"))
		return
	}

	var req model.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	applyUpdate(provider, &req)

	if err := h.service.UpdateProvider(c.Request.Context(), provider); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.publishEvent(c, model.EventProviderUpdate, provider)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(provider))
}

func (h *Handler) DeleteProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	if err := h.service.DeleteProvider(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.publishEvent(c, model.EventProviderDelete, map[string]interface{}{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(providers))
}

func (h *Handler) ListOwnProviders(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
		return
	}

	providers, err := h.service.ListOwnProviders(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(providers))
}

func (h *Handler) SearchProviders(c *gin.Context) {
	filters, err := parseSearchFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	results, err := h.service.SearchProviders(c.Request.Context(), c.Query("q"), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(results))
}

func (h *Handler) ClaimProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	userID, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
		return
	}

	provider, err := h.service.ClaimProvider(c.Request.Context(), id, userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.publishEvent(c, model.EventProviderClaim, provider)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(provider))
}

type importRequest struct {
	Providers []model.ProviderImportRow `json:"providers" binding:"required,min=1"`
}

func (h *Handler) ImportProviders(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.ImportProviders(c.Request.Context(), req.Providers)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"imported": created}))
}

type photoRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func (h *Handler) AddPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	actor, ok := handler.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
		return
	}

	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.AddPhoto(c.Request.Context(), actor, id, req.URL); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RemovePhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	actor, ok := handler.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
		return
	}

	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.RemovePhoto(c.Request.Context(), actor, id, req.URL); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// canManage allows the listing owner and admins through.
func (h *Handler) canManage(c *gin.Context, provider *model.Provider) bool {
	actor, ok := handler.ActorFrom(c)
	return ok && actor.CanManage(provider)
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

func parseSearchFilters(c *gin.Context) (*model.SearchFilters, error) {
	filters := &model.SearchFilters{
		City: c.Query("city"),
	}

	for _, t := range c.QueryArray("provider_type") {
		pt := model.ProviderType(t)
		if !model.ValidProviderType(pt) {
			return nil, &invalidFilterError{field: "provider_type", value: t}
		}
		filters.ProviderTypes = append(filters.ProviderTypes, pt)
	}

	if v := c.Query("verification_status"); v != "" {
		status := model.VerificationStatus(v)
		if !model.ValidVerificationStatus(status) {
			return nil, &invalidFilterError{field: "verification_status", value: v}
		}
		filters.VerificationStatus = &status
	}

	var err error
	if filters.IsEmergency, err = parseBoolParam(c, "is_emergency"); err != nil {
		return nil, err
	}
	if filters.HomeVisitAvailable, err = parseBoolParam(c, "home_visit_available"); err != nil {
		return nil, err
	}

	for _, f := range c.QueryArray("accessibility_feature") {
		if !model.ValidAccessibilityFeature(f) {
			return nil, &invalidFilterError{field: "accessibility_feature", value: f}
		}
		filters.AccessibilityFeatures = append(filters.AccessibilityFeatures, f)
	}

	return filters, nil
}

func parseBoolParam(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &invalidFilterError{field: name, value: v}
	}
	return &parsed, nil
}

type invalidFilterError struct {
	field string
	value string
}

func (e *invalidFilterError) Error() string {
	return "invalid value \"" + e.value + "\" for filter " + e.field
}

func applyUpdate(provider *model.Provider, req *model.UpdateProviderRequest) {
	if req.BusinessName != nil {
		provider.BusinessName = *req.BusinessName
	}
	if req.Phone != nil {
		provider.Phone = *req.Phone
	}
	if req.Email != nil {
		provider.Email = req.Email
	}
	if req.Address != nil {
		provider.Address = *req.Address
	}
	if req.City != nil {
		provider.City = req.City
	}
	if req.SpecialtyID != nil {
		provider.SpecialtyID = req.SpecialtyID
	}
	if req.Latitude != nil {
		provider.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		provider.Longitude = req.Longitude
	}
	if req.Description != nil {
		provider.Description = req.Description
	}
	if req.AvatarURL != nil {
		provider.AvatarURL = req.AvatarURL
	}
	if req.CoverImageURL != nil {
		provider.CoverImageURL = req.CoverImageURL
	}
	if req.Website != nil {
		provider.Website = req.Website
	}
	if req.IsEmergency != nil {
		provider.IsEmergency = *req.IsEmergency
	}
	if req.AccessibilityFeatures != nil {
		provider.AccessibilityFeatures = req.AccessibilityFeatures
	}
	if req.HomeVisitAvailable != nil {
		provider.HomeVisitAvailable = *req.HomeVisitAvailable
	}
}
