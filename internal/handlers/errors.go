package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/personal_finance_app/internal/apperrors"
	"github.com/SscSPs/personal_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

var kindStatus = map[string]int{
	"Validation":            http.StatusBadRequest,
	"InsufficientFunds":     http.StatusBadRequest,
	"InvalidCard":           http.StatusBadRequest,
	"SameCard":              http.StatusBadRequest,
	"BelowMinimum":          http.StatusBadRequest,
	"RateUnavailable":       http.StatusBadRequest,
	"CategoryTypeMismatch":  http.StatusBadRequest,
	"HasTransactions":       http.StatusBadRequest,
	"LastActiveCard":        http.StatusBadRequest,
	"Unauthorized":          http.StatusUnauthorized,
	"RefreshTokenExpired":   http.StatusUnauthorized,
	"Forbidden":             http.StatusForbidden,
	"NotFound":              http.StatusNotFound,
	"Duplicate":             http.StatusConflict,
	"DuplicateActiveBudget": http.StatusConflict,
	"TooManyRequests":       http.StatusTooManyRequests,
}

// statusFor maps an error to its HTTP status. AppErrors of an unknown kind keep their own code.
func statusFor(err error) int {
	if status, ok := kindStatus[apperrors.Kind(err)]; ok {
		return status
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status of its kind.
// Server errors are logged and reported with fallback instead of the error text.
func respondError(c *gin.Context, err error, fallback string) {
	respondErrorWithStatus(c, err, statusFor(err), fallback)
}

func respondErrorWithStatus(c *gin.Context, err error, status int, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind := apperrors.Kind(err)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallback, Kind: kind})
		return
	}

	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.String("kind", kind))
	c.JSON(status, ErrorResponse{Error: msg, Kind: kind})
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error(), Kind: "Validation"})
}

// currentUserID returns the authenticated user, writing a 401 when there is none.
func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Kind: "Unauthorized"})
		return "", false
	}
	return userID, true
}
