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

// minutesHandler handles HTTP requests for meeting minutes.
type minutesHandler struct {
	minutesService portssvc.MinutesSvcFacade
}

func newMinutesHandler(ms portssvc.MinutesSvcFacade) *minutesHandler {
	return &minutesHandler{minutesService: ms}
}

// registerMinutesRoutes registers the minutes routes. Mutations are admin
// only.
func registerMinutesRoutes(rg *gin.RouterGroup, minutesService portssvc.MinutesSvcFacade) {
	h := newMinutesHandler(minutesService)

	minutes := rg.Group("/minutes")
	{
		minutes.GET("", h.listMinutes)
		minutes.GET("/:id", h.getMinutes)

		admin := minutes.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createMinutes)
			admin.PUT("/:id", h.updateMinutes)
			admin.DELETE("/:id", h.deleteMinutes)
		}
	}
}

func respondMinutesError(c *gin.Context, logger *slog.Logger, err error, action string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Minutes not found"})
		return
	}
	logger.Error("Failed to "+action, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
}

// createMinutes godoc
// @Summary Record meeting minutes
// @Description Stores minutes for a meeting and notifies every member
// @Tags minutes
// @Accept  json
// @Produce  json
// @Param   minutes body dto.CreateMinutesRequest true "Minutes details"
// @Success 201 {object} dto.MinutesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Failed to record minutes"
// @Security BearerAuth
// @Router /minutes [post]
func (h *minutesHandler) createMinutes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMinutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.minutesService.CreateMinutes(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondMinutesError(c, logger, err, "record minutes")
		return
	}

	c.JSON(http.StatusCreated, dto.ToMinutesResponse(created))
}

// getMinutes godoc
// @Summary Get meeting minutes
// @Tags minutes
// @Produce  json
// @Param   id path int true "Minutes ID"
// @Success 200 {object} dto.MinutesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Minutes not found"
// @Failure 500 {object} map[string]string "Failed to retrieve minutes"
// @Security BearerAuth
// @Router /minutes/{id} [get]
func (h *minutesHandler) getMinutes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minutes ID"})
		return
	}

	m, err := h.minutesService.GetMinutes(c.Request.Context(), id)
	if err != nil {
		respondMinutesError(c, logger, err, "retrieve minutes")
		return
	}

	c.JSON(http.StatusOK, dto.ToMinutesResponse(m))
}

// listMinutes godoc
// @Summary List meeting minutes
// @Tags minutes
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.MinutesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list minutes"
// @Security BearerAuth
// @Router /minutes [get]
func (h *minutesHandler) listMinutes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.minutesService.ListMinutes(c.Request.Context(), limit, offset)
	if err != nil {
		respondMinutesError(c, logger, err, "list minutes")
		return
	}

	c.JSON(http.StatusOK, dto.ToMinutesResponses(items))
}

// updateMinutes godoc
// @Summary Update meeting minutes
// @Tags minutes
// @Accept  json
// @Produce  json
// @Param   id path int true "Minutes ID"
// @Param   minutes body dto.UpdateMinutesRequest true "Fields to change"
// @Success 200 {object} dto.MinutesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Minutes not found"
// @Failure 500 {object} map[string]string "Failed to update minutes"
// @Security BearerAuth
// @Router /minutes/{id} [put]
func (h *minutesHandler) updateMinutes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minutes ID"})
		return
	}

	var req dto.UpdateMinutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.minutesService.UpdateMinutes(c.Request.Context(), id, req, updaterUserID)
	if err != nil {
		respondMinutesError(c, logger, err, "update minutes")
		return
	}

	c.JSON(http.StatusOK, dto.ToMinutesResponse(updated))
}

// deleteMinutes godoc
// @Summary Delete meeting minutes
// @Tags minutes
// @Produce  json
// @Param   id path int true "Minutes ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Minutes not found"
// @Failure 500 {object} map[string]string "Failed to delete minutes"
// @Security BearerAuth
// @Router /minutes/{id} [delete]
func (h *minutesHandler) deleteMinutes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minutes ID"})
		return
	}

	if err := h.minutesService.DeleteMinutes(c.Request.Context(), id); err != nil {
		respondMinutesError(c, logger, err, "delete minutes")
		return
	}

	c.Status(http.StatusNoContent)
}
