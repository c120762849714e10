package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// googleOAuthHandler handles Google OAuth related requests.
// The frontend receives the authorization code from Google and posts it here.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	authService        portssvc.AuthSvcFacade
	tokenService       portssvc.TokenSvcFacade
}

func newGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	authService portssvc.AuthSvcFacade,
	tokenService portssvc.TokenSvcFacade,
) *googleOAuthHandler {
	return &googleOAuthHandler{
		googleOAuthService: googleOAuthService,
		authService:        authService,
		tokenService:       tokenService,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newGoogleOAuthHandler(services.GoogleOAuthHandler, services.Auth, services.TokenService)
	googleRoutes := rg.Group("/auth/google")
	{
		googleRoutes.GET("/login-url", h.loginURL)
		googleRoutes.POST("/exchange-code", h.exchangeCode)
	}
}

// loginURL godoc
// @Summary Google login URL
// @Description Returns the Google consent URL with a fresh state parameter
// @Tags oauth
// @Produce json
// @Success 200 {object} dto.GoogleLoginURLResponse
// @Router /auth/google/login-url [get]
func (h *googleOAuthHandler) loginURL(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		respondError(c, err, "Failed to generate OAuth state")
		return
	}
	c.JSON(http.StatusOK, dto.GoogleLoginURLResponse{URL: h.googleOAuthService.GetGoogleLoginURL(ctx, state)})
}

// exchangeCode handles the POST request from the frontend containing the authorization code from Google.
// It exchanges the code for Google tokens, validates the ID token, creates or retrieves the user,
// and returns an application token pair.
// @Summary Exchange authorization code for access token
// @Description Exchange authorization code for access token
// @Tags oauth
// @Accept  json
// @Produce  json
// @Param   code body dto.GoogleExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid authorization code"
// @Failure 401 {object} ErrorResponse "Invalid Google ID token"
// @Failure 504 {object} ErrorResponse "Google unavailable"
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.GoogleExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		appErr := apperrors.NewGatewayTimeoutError("Failed to communicate with Google OAuth service.")
		// Google answers a bad code with invalid_grant, which is the caller's fault in this flow.
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "invalid_grant") || strings.Contains(lower, "bad request") {
			appErr = apperrors.NewBadRequestError("Invalid or expired authorization code provided by Google.")
		}
		respondErrorWithStatus(c, appErr, appErr.Code, appErr.Message)
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		respondError(c, apperrors.NewInternalServerError("ID token not found in Google's token response"), "Failed to retrieve ID token from Google.")
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		respondError(c, apperrors.NewUnauthorizedError("Invalid Google ID token: "+err.Error()), "Google ID token validation failed")
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	providerUserID := payload.Subject

	if email == "" || providerUserID == "" {
		logger.Error("Essential claims (email or sub) missing from Google ID token payload")
		respondError(c, apperrors.NewInternalServerError("missing email or subject claim"), "Essential user information missing from Google token.")
		return
	}

	user, err := h.authService.LoginWithGoogle(ctx, name, email, providerUserID, emailVerified)
	if err != nil {
		respondError(c, err, "Failed to process user authentication")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(ctx, user)
	if err != nil {
		respondError(c, err, "Failed to generate access token.")
		return
	}

	logger.Info("User authenticated via Google", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         dto.ToUserResponse(user),
	})
}
