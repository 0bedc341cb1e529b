package auth

import (
	"errors"
	"net/http"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register/customer", h.RegisterCustomer)
	rg.POST("/auth/register/provider", h.RegisterProvider)
	rg.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterAuthedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
}

func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, token, err := h.service.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register customer")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":  publicUser(user),
		"token": token,
	})
}

func (h *Handler) RegisterProvider(c *gin.Context) {
	var req RegisterProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, profile, token, err := h.service.RegisterProvider(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register provider")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":     publicUser(user),
		"provider": profile,
		"token":    token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, ErrNotVerified):
			response.Error(c, http.StatusForbidden, "NOT_VERIFIED", "Verify your email before logging in")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to log in")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  publicUser(result.User),
		"token": result.AccessToken,
	})
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	response.Success(c, http.StatusOK, publicUser(user))
}

func publicUser(u *domain.User) UserPublic {
	return UserPublic{
		ID:    u.ID,
		Role:  string(u.Role),
		Name:  u.Name,
		Email: u.Email,
	}
}
