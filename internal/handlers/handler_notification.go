package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/orghub/orghub-backend/internal/apperrors"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/orghub/orghub-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// notificationHandler handles HTTP requests for the notification inbox and
// the live event stream.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
	keepaliveInterval   time.Duration
}

func newNotificationHandler(ns portssvc.NotificationSvcFacade, keepalive time.Duration) *notificationHandler {
	return &notificationHandler{notificationService: ns, keepaliveInterval: keepalive}
}

// registerNotificationRoutes registers the notification routes. Everything
// here operates on the caller's own inbox except the direct send.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade, keepalive time.Duration) {
	h := newNotificationHandler(notificationService, keepalive)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listInbox)
		notifications.GET("/sse", h.stream)
		notifications.POST("/:id/read", h.markRead)
		notifications.POST("/fcm-token", h.saveFCMToken)
		notifications.POST("", h.sendNotification)
	}
}

// sendNotification godoc
// @Summary Send a notification to one member
// @Tags notifications
// @Accept  json
// @Produce  json
// @Param   notification body dto.CreateNotificationRequest true "Notification details"
// @Success 201 {object} dto.NotificationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to send notification"
// @Security BearerAuth
// @Router /notifications [post]
func (h *notificationHandler) sendNotification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for send notification", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	saved, err := h.notificationService.Notify(c.Request.Context(), req.UserID, req.Title, req.Content)
	if err != nil {
		logger.Error("Failed to send notification", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToNotificationResponse(saved))
}

// listInbox godoc
// @Summary List the caller's notifications
// @Description Returns the caller's inbox, newest first, read and unread
// @Tags notifications
// @Produce  json
// @Success 200 {array} dto.NotificationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list notifications"
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listInbox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notifications, err := h.notificationService.ListInbox(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list notifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationResponses(notifications))
}

// markRead godoc
// @Summary Mark a notification as read
// @Description Flips the read flag of one of the caller's notifications
// @Tags notifications
// @Produce  json
// @Param   id path int true "Notification ID"
// @Success 200 {object} dto.NotificationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Notification not found"
// @Failure 500 {object} map[string]string "Failed to mark notification"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.notificationService.MarkRead(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		logger.Error("Failed to mark notification read", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification"})
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationResponse(updated))
}

// saveFCMToken godoc
// @Summary Save the caller's push delivery token
// @Tags notifications
// @Accept  json
// @Produce  json
// @Param   token body dto.SaveFCMTokenRequest true "Device token"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save token"
// @Security BearerAuth
// @Router /notifications/fcm-token [post]
func (h *notificationHandler) saveFCMToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaveFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.notificationService.SaveFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		logger.Error("Failed to save FCM token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token"})
		return
	}

	c.Status(http.StatusNoContent)
}

// stream godoc
// @Summary Live notification stream
// @Description Server-sent events stream of the caller's notifications. A new connection replaces any previous one. Keep-alive events are emitted on an interval so proxies do not drop idle streams.
// @Tags notifications
// @Produce  text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications/sse [get]
func (h *notificationHandler) stream(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ch, cancel := h.notificationService.OpenChannel(userID)
	defer cancel()

	logger.Info("Notification stream opened", slog.String("user_id", userID))

	keepalive := time.NewTicker(h.keepaliveInterval)
	defer keepalive.Stop()

	clientCtx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case n, open := <-ch:
			if !open {
				// Replaced by a newer connection.
				return false
			}
			c.SSEvent("notification", dto.ToNotificationResponse(&n))
			return true
		case <-keepalive.C:
			c.SSEvent("keepalive", "")
			return true
		case <-clientCtx.Done():
			return false
		}
	})

	logger.Info("Notification stream closed", slog.String("user_id", userID))
}
