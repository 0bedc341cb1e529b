package provider

import (
	"errors"
	"net/http"

	"homeservices/internal/pkg/response"
	"homeservices/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
// Verification links land here straight from the email client.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/provider/verify", h.Verify)
}

func (h *Handler) RegisterProviderRoutes(rg *gin.RouterGroup) {
	rg.GET("/provider/profile", h.Profile)
	rg.PUT("/provider/profile", h.UpdateProfile)
	rg.POST("/provider/verify/resend", h.ResendVerification)
}

func (h *Handler) Verify(c *gin.Context) {
	token := c.Query("token")

	p, err := h.service.VerifyByToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired verification token")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify provider")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"provider": p,
		"verified": true,
	})
}

func (h *Handler) Profile(c *gin.Context) {
	userID := c.GetInt64("user_id")

	p, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid profile fields", fieldErrs)
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

func (h *Handler) ResendVerification(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.ResendVerification(c.Request.Context(), userID); err != nil {
		if errors.Is(err, ErrVerified) {
			response.Error(c, http.StatusConflict, "ALREADY_VERIFIED", "Provider is already verified")
			return
		}
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

func (h *Handler) mapError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Provider profile not found")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}
