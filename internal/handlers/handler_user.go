package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// userHandler handles the authenticated user's profile.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// registerUserRoutes registers all profile routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	profile := rg.Group("/profile")
	{
		profile.GET("", h.getProfile)
		profile.PATCH("", h.updateProfile)
		profile.DELETE("", h.deleteAccount)
		profile.POST("/change-password", h.changePassword)
		profile.GET("/statistics", h.statistics)
	}
}

// getProfile godoc
// @Summary Get the current user
// @Tags profile
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (h *userHandler) getProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateProfile godoc
// @Summary Update the current user
// @Description Updates username, names, phone, date of birth or default currency
// @Tags profile
// @Accept  json
// @Produce  json
// @Param   profile body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username taken"
// @Security BearerAuth
// @Router /profile [patch]
func (h *userHandler) updateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// changePassword godoc
// @Summary Change password
// @Tags profile
// @Accept  json
// @Param   passwords body dto.ChangePasswordRequest true "Old and new password"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Old password does not match"
// @Security BearerAuth
// @Router /profile/change-password [post]
func (h *userHandler) changePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, err, "Failed to change password")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteAccount godoc
// @Summary Delete the current user
// @Description Deletes the account and everything it owns after checking the password
// @Tags profile
// @Accept  json
// @Param   confirm body dto.DeleteAccountRequest true "Password"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /profile [delete]
func (h *userHandler) deleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), userID, req.Password); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deleted", slog.String("user_id", userID))
	c.Status(http.StatusNoContent)
}

// statistics godoc
// @Summary Profile statistics
// @Tags profile
// @Produce  json
// @Success 200 {object} domain.UserStatistics
// @Security BearerAuth
// @Router /profile/statistics [get]
func (h *userHandler) statistics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.userService.UserStatistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
