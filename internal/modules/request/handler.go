package request

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"homeservices/internal/domain"
	"homeservices/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterCustomerRoutes mounts the requester-side endpoints.
func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.POST("/requests", h.Create)
	rg.GET("/requests", h.MyRequests)
	rg.GET("/requests/:id", h.Get)
	rg.POST("/requests/:id/cancel", h.Cancel)
}

// RegisterProviderRoutes mounts the provider-side endpoints.
func (h *Handler) RegisterProviderRoutes(rg *gin.RouterGroup) {
	rg.GET("/provider/requests", h.Dashboard)
	rg.POST("/requests/:id/accept", h.Accept)
	rg.POST("/requests/:id/reject", h.Reject)
	rg.POST("/requests/:id/complete", h.Complete)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sr, err := h.service.CreateRequest(c.Request.Context(), userID, req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, sr)
}

func (h *Handler) MyRequests(c *gin.Context) {
	userID := c.GetInt64("user_id")

	list, err := h.service.MyRequests(c.Request.Context(), userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"requests": list,
		"total":    len(list),
	})
}

func (h *Handler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, ok := h.requestID(c)
	if !ok {
		return
	}

	sr, err := h.service.GetRequest(c.Request.Context(), userID, id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sr)
}

func (h *Handler) Cancel(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, ok := h.requestID(c)
	if !ok {
		return
	}

	sr, err := h.service.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sr)
}

func (h *Handler) Dashboard(c *gin.Context) {
	userID := c.GetInt64("user_id")

	dash, err := h.service.Dashboard(c.Request.Context(), userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dash)
}

func (h *Handler) Accept(c *gin.Context) {
	h.transition(c, h.service.Accept)
}

func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, providerUserID, requestID int64) (*domain.ServiceRequest, error)) {
	userID := c.GetInt64("user_id")

	id, ok := h.requestID(c)
	if !ok {
		return
	}

	sr, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sr)
}

func (h *Handler) requestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Request not found")
	case errors.Is(err, ErrNoProvider):
		response.Error(c, http.StatusForbidden, "NO_PROVIDER_PROFILE", "Provider profile not found")
	case errors.Is(err, ErrCategoryMismatch):
		response.Error(c, http.StatusForbidden, "CATEGORY_MISMATCH", ErrCategoryMismatch.Error())
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", ErrUnauthorized.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "STATUS_CONFLICT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
