package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/orghub/orghub-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// memberHandler handles HTTP requests for member profiles.
type memberHandler struct {
	userService portssvc.UserSvcFacade
}

func newMemberHandler(us portssvc.UserSvcFacade) *memberHandler {
	return &memberHandler{userService: us}
}

// registerMemberRoutes registers the member routes. Members may read the
// roster and edit their own profile; creation and deletion are admin only.
func registerMemberRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newMemberHandler(userService)

	members := rg.Group("/members")
	{
		members.GET("", h.listMembers)
		members.GET("/me", h.getOwnProfile)
		members.GET("/:id", h.getMember)
		members.PUT("/:id", h.updateMember)

		admin := members.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createMember)
			admin.DELETE("/:id", h.deleteMember)
		}
	}
}

// createMember godoc
// @Summary Create a member
// @Description Creates a member account with an explicit role
// @Tags members
// @Accept  json
// @Produce  json
// @Param   member body dto.CreateUserRequest true "Member details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Failed to create member"
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Error("Failed to create member", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// getOwnProfile godoc
// @Summary Get the caller's profile
// @Tags members
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to retrieve member"
// @Security BearerAuth
// @Router /members/me [get]
func (h *memberHandler) getOwnProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	h.respondWithMember(c, userID)
}

// getMember godoc
// @Summary Get a member by ID
// @Tags members
// @Produce  json
// @Param   id path string true "Member ID"
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to retrieve member"
// @Security BearerAuth
// @Router /members/{id} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	h.respondWithMember(c, c.Param("id"))
}

func (h *memberHandler) respondWithMember(c *gin.Context, userID string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Error("Failed to get member", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listMembers godoc
// @Summary List members
// @Tags members
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list members"
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.userService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list members", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list members"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}

// updateMember godoc
// @Summary Update a member
// @Description Members update their own profile; admins update anyone and may change roles
// @Tags members
// @Accept  json
// @Produce  json
// @Param   id path string true "Member ID"
// @Param   member body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to update member"
// @Security BearerAuth
// @Router /members/{id} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	if callerID != targetID && role != domain.RoleAdmin {
		logger.Warn("Member forbidden to update another profile",
			slog.String("caller_id", callerID), slog.String("target_id", targetID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	// Only admins may change roles.
	if req.Role != nil && role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins may change roles"})
		return
	}

	updated, err := h.userService.UpdateUser(c.Request.Context(), targetID, req, callerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Error("Failed to update member", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(updated))
}

// deleteMember godoc
// @Summary Delete a member
// @Description Soft-deletes the member; their audit trail stays intact
// @Tags members
// @Produce  json
// @Param   id path string true "Member ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to delete member"
// @Security BearerAuth
// @Router /members/{id} [delete]
func (h *memberHandler) deleteMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), targetID, callerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Error("Failed to delete member", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}

	c.Status(http.StatusNoContent)
}
