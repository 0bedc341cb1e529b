package notification

import (
	"errors"
	"net/http"
	"strconv"

	"homeservices/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service *Service
	feed    *Feed
}

func NewHandler(service *Service, feed *Feed) *Handler {
	return &Handler{service: service, feed: feed}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
	rg.POST("/notifications/:id/read", h.MarkRead)
	rg.POST("/notifications/read-all", h.MarkAllRead)
	if h.feed != nil {
		rg.GET("/notifications/ws", h.feed.HandleWS)
	}
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, unread, err := h.service.GetUserNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load notifications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"notifications": list,
		"unread_count":  unread,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notification ID")
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notification as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "is_read": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notifications as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked": true})
}
