package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/orghub/orghub-backend/internal/apperrors"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/orghub/orghub-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// eventHandler handles HTTP requests for events and attendance.
type eventHandler struct {
	eventService portssvc.EventSvcFacade
}

func newEventHandler(es portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{eventService: es}
}

// registerEventRoutes registers the event routes. Members read and mark
// their own attendance; mutations are admin only.
func registerEventRoutes(rg *gin.RouterGroup, eventService portssvc.EventSvcFacade) {
	h := newEventHandler(eventService)

	events := rg.Group("/events")
	{
		events.GET("", h.listEvents)
		events.GET("/:id", h.getEvent)
		events.POST("/:id/attend", h.markAttendance)
		events.GET("/:id/attendance", h.listAttendance)

		admin := events.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createEvent)
			admin.PUT("/:id", h.updateEvent)
			admin.DELETE("/:id", h.deleteEvent)
		}
	}
}

func respondEventError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createEvent godoc
// @Summary Create an event
// @Description Schedules an event and notifies every member
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Failed to create event"
// @Security BearerAuth
// @Router /events [post]
func (h *eventHandler) createEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.eventService.CreateEvent(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondEventError(c, logger, err, "create event")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventResponse(created))
}

// getEvent godoc
// @Summary Get an event
// @Tags events
// @Produce  json
// @Param   id path int true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to retrieve event"
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *eventHandler) getEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondEventError(c, logger, err, "retrieve event")
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// listEvents godoc
// @Summary List events
// @Tags events
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.EventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list events"
// @Security BearerAuth
// @Router /events [get]
func (h *eventHandler) listEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, err := h.eventService.ListEvents(c.Request.Context(), limit, offset)
	if err != nil {
		respondEventError(c, logger, err, "list events")
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponses(events))
}

// updateEvent godoc
// @Summary Update an event
// @Description Applies a partial update; changing the schedule notifies every member
// @Tags events
// @Accept  json
// @Produce  json
// @Param   id path int true "Event ID"
// @Param   event body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to update event"
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *eventHandler) updateEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.eventService.UpdateEvent(c.Request.Context(), id, req, updaterUserID)
	if err != nil {
		respondEventError(c, logger, err, "update event")
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(updated))
}

// deleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Produce  json
// @Param   id path int true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to delete event"
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *eventHandler) deleteEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), id); err != nil {
		respondEventError(c, logger, err, "delete event")
		return
	}

	c.Status(http.StatusNoContent)
}

// markAttendance godoc
// @Summary Mark attendance
// @Description Records the caller's attendance status for the event; marking again overwrites
// @Tags events
// @Accept  json
// @Produce  json
// @Param   id path int true "Event ID"
// @Param   attendance body dto.MarkAttendanceRequest true "Attendance status"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to mark attendance"
// @Security BearerAuth
// @Router /events/{id}/attend [post]
func (h *eventHandler) markAttendance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.eventService.MarkAttendance(c.Request.Context(), id, userID, req.Status); err != nil {
		respondEventError(c, logger, err, "mark attendance")
		return
	}

	c.Status(http.StatusNoContent)
}

// listAttendance godoc
// @Summary List attendance for an event
// @Tags events
// @Produce  json
// @Param   id path int true "Event ID"
// @Success 200 {array} domain.Attendance
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 500 {object} map[string]string "Failed to list attendance"
// @Security BearerAuth
// @Router /events/{id}/attendance [get]
func (h *eventHandler) listAttendance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	records, err := h.eventService.ListAttendance(c.Request.Context(), id)
	if err != nil {
		respondEventError(c, logger, err, "list attendance")
		return
	}

	c.JSON(http.StatusOK, records)
}
