package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/personal_finance_app/internal/core/ports/services"
	"github.com/SscSPs/personal_finance_app/internal/dto"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration, login and token renewal.
type authHandler struct {
	authService  portssvc.AuthSvcFacade
	tokenService portssvc.TokenSvcFacade
	userService  portssvc.UserSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade, ts portssvc.TokenSvcFacade, us portssvc.UserSvcFacade) *authHandler {
	return &authHandler{
		authService:  as,
		tokenService: ts,
		userService:  us,
	}
}

// registerAuthRoutes sets up the public authentication routes.
// limit guards the routes that send email or check passwords.
func registerAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, limit gin.HandlerFunc) {
	h := newAuthHandler(services.Auth, services.TokenService, services.User)

	auth := rg.Group("/auth")
	{
		auth.POST("/signup", limit, h.signup)
		auth.POST("/verify-code", h.verifyCode)
		auth.POST("/resend-code", limit, h.resendCode)
		auth.POST("/complete-registration", h.completeRegistration)
		auth.POST("/login", limit, h.login)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
		auth.GET("/check-username", h.checkUsername)
		auth.GET("/check-email", h.checkEmail)
	}
}

// signup godoc
// @Summary Start registration
// @Description Creates a pending user and emails a 4-digit verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body dto.SignupRequest true "Email address"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 429 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *authHandler) signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.Signup(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "Failed to start registration")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification code sent"})
}

// verifyCode godoc
// @Summary Verify email code
// @Tags auth
// @Accept json
// @Produce json
// @Param verify body dto.VerifyCodeRequest true "Email and code"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired code"
// @Failure 404 {object} ErrorResponse
// @Router /auth/verify-code [post]
func (h *authHandler) verifyCode(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.VerifyCode(c.Request.Context(), req.Email, req.Code); err != nil {
		respondError(c, err, "Failed to verify code")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email verified"})
}

// resendCode godoc
// @Summary Resend verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param resend body dto.ResendCodeRequest true "Email address"
// @Success 200 {object} dto.MessageResponse
// @Failure 429 {object} ErrorResponse "Asked again too soon"
// @Router /auth/resend-code [post]
func (h *authHandler) resendCode(c *gin.Context) {
	var req dto.ResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.ResendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "Failed to resend code")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification code sent"})
}

// completeRegistration godoc
// @Summary Complete registration
// @Description Sets username, password and profile on a verified email and logs the user in
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.CompleteRegistrationRequest true "Registration details"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username taken"
// @Router /auth/complete-registration [post]
func (h *authHandler) completeRegistration(c *gin.Context) {
	var req dto.CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.CompleteRegistration(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to complete registration")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Registration completed", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         dto.ToUserResponse(user),
	})
}

// login godoc
// @Summary User login
// @Description Authenticates with a username or email and returns an access and refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         dto.ToUserResponse(user),
	})
}

// refresh godoc
// @Summary Refresh tokens
// @Description Exchanges a refresh token for a new access token. The refresh token is rotated.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Failed to validate refresh token")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, dto.RefreshTokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// logout godoc
// @Summary Log out
// @Description Revokes the refresh token
// @Tags auth
// @Accept json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 204
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.tokenService.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}
	c.Status(http.StatusNoContent)
}

// checkUsername godoc
// @Summary Check username availability
// @Tags auth
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} dto.AvailabilityResponse
// @Router /auth/check-username [get]
func (h *authHandler) checkUsername(c *gin.Context) {
	var params dto.CheckUsernameParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	available, err := h.userService.IsUsernameAvailable(c.Request.Context(), params.Username)
	if err != nil {
		respondError(c, err, "Failed to check username")
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}

// checkEmail godoc
// @Summary Check email availability
// @Tags auth
// @Produce json
// @Param email query string true "Email"
// @Success 200 {object} dto.AvailabilityResponse
// @Router /auth/check-email [get]
func (h *authHandler) checkEmail(c *gin.Context) {
	var params dto.CheckEmailParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	available, err := h.userService.IsEmailAvailable(c.Request.Context(), params.Email)
	if err != nil {
		respondError(c, err, "Failed to check email")
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}
