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

// newsHandler handles HTTP requests for announcements.
type newsHandler struct {
	newsService portssvc.NewsSvcFacade
}

func newNewsHandler(ns portssvc.NewsSvcFacade) *newsHandler {
	return &newsHandler{newsService: ns}
}

// registerNewsRoutes registers the news routes. Publishing, editing and
// deletion are admin only.
func registerNewsRoutes(rg *gin.RouterGroup, newsService portssvc.NewsSvcFacade) {
	h := newNewsHandler(newsService)

	news := rg.Group("/news")
	{
		news.GET("", h.listNews)
		news.GET("/:id", h.getNews)

		admin := news.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createNews)
			admin.PUT("/:id", h.updateNews)
			admin.DELETE("/:id", h.deleteNews)
		}
	}
}

func respondNewsError(c *gin.Context, logger *slog.Logger, err error, action string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found"})
		return
	}
	logger.Error("Failed to "+action, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
}

// createNews godoc
// @Summary Publish an announcement
// @Description Publishes a news item and notifies every member
// @Tags news
// @Accept  json
// @Produce  json
// @Param   news body dto.CreateNewsRequest true "Announcement details"
// @Success 201 {object} dto.NewsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Failed to publish news"
// @Security BearerAuth
// @Router /news [post]
func (h *newsHandler) createNews(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.newsService.CreateNews(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondNewsError(c, logger, err, "publish news")
		return
	}

	c.JSON(http.StatusCreated, dto.ToNewsResponse(created))
}

// getNews godoc
// @Summary Get an announcement
// @Tags news
// @Produce  json
// @Param   id path int true "News ID"
// @Success 200 {object} dto.NewsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "News not found"
// @Failure 500 {object} map[string]string "Failed to retrieve news"
// @Security BearerAuth
// @Router /news/{id} [get]
func (h *newsHandler) getNews(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news ID"})
		return
	}

	news, err := h.newsService.GetNews(c.Request.Context(), id)
	if err != nil {
		respondNewsError(c, logger, err, "retrieve news")
		return
	}

	c.JSON(http.StatusOK, dto.ToNewsResponse(news))
}

// listNews godoc
// @Summary List announcements
// @Tags news
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.NewsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list news"
// @Security BearerAuth
// @Router /news [get]
func (h *newsHandler) listNews(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.newsService.ListNews(c.Request.Context(), limit, offset)
	if err != nil {
		respondNewsError(c, logger, err, "list news")
		return
	}

	c.JSON(http.StatusOK, dto.ToNewsResponses(items))
}

// updateNews godoc
// @Summary Update an announcement
// @Tags news
// @Accept  json
// @Produce  json
// @Param   id path int true "News ID"
// @Param   news body dto.UpdateNewsRequest true "Fields to change"
// @Success 200 {object} dto.NewsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "News not found"
// @Failure 500 {object} map[string]string "Failed to update news"
// @Security BearerAuth
// @Router /news/{id} [put]
func (h *newsHandler) updateNews(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news ID"})
		return
	}

	var req dto.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.newsService.UpdateNews(c.Request.Context(), id, req, updaterUserID)
	if err != nil {
		respondNewsError(c, logger, err, "update news")
		return
	}

	c.JSON(http.StatusOK, dto.ToNewsResponse(updated))
}

// deleteNews godoc
// @Summary Delete an announcement
// @Tags news
// @Produce  json
// @Param   id path int true "News ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "News not found"
// @Failure 500 {object} map[string]string "Failed to delete news"
// @Security BearerAuth
// @Router /news/{id} [delete]
func (h *newsHandler) deleteNews(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news ID"})
		return
	}

	if err := h.newsService.DeleteNews(c.Request.Context(), id); err != nil {
		respondNewsError(c, logger, err, "delete news")
		return
	}

	c.Status(http.StatusNoContent)
}
