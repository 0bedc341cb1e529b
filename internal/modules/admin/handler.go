package admin

import (
	"errors"
	"net/http"
	"strconv"

	"homeservices/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/statistics", h.Statistics)
	rg.GET("/admin/providers", h.ListProviders)
	rg.GET("/admin/requests", h.ListRequests)
	rg.GET("/admin/users", h.ListUsers)
	rg.POST("/admin/providers/:id/verify", h.VerifyProvider)
}

func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load statistics")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) ListProviders(c *gin.Context) {
	page, limit := pagination(c)

	providers, total, err := h.service.ListProviders(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list providers")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"providers": providers,
		"total":     total,
		"page":      page,
	})
}

func (h *Handler) ListRequests(c *gin.Context) {
	page, limit := pagination(c)

	requests, total, err := h.service.ListRequests(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list requests")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     page,
	})
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := pagination(c)

	users, total, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
	})
}

func (h *Handler) VerifyProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid provider ID")
		return
	}

	p, err := h.service.VerifyProvider(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Provider not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify provider")
		return
	}

	response.Success(c, http.StatusOK, p)
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}
