package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller does not own the resource it tried to use.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected server side failure.
var ErrInternal = errors.New("internal error")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrTooManyRequests indicates the caller must wait before retrying.
var ErrTooManyRequests = errors.New("too many requests")

// Domain error kinds.
var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidCard           = errors.New("invalid card")
	ErrSameCard              = errors.New("cannot transfer to the same card")
	ErrBelowMinimum          = errors.New("amount is below the minimum")
	ErrRateUnavailable       = errors.New("exchange rate not available")
	ErrCategoryTypeMismatch  = errors.New("category type does not match transaction type")
	ErrHasTransactions       = errors.New("resource has transactions")
	ErrLastActiveCard        = errors.New("cannot delete the last active card")
	ErrDuplicateActiveBudget = errors.New("an active budget already exists for this category and period")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrInvalidCard, "InvalidCard"},
	{ErrSameCard, "SameCard"},
	{ErrBelowMinimum, "BelowMinimum"},
	{ErrRateUnavailable, "RateUnavailable"},
	{ErrCategoryTypeMismatch, "CategoryTypeMismatch"},
	{ErrHasTransactions, "HasTransactions"},
	{ErrLastActiveCard, "LastActiveCard"},
	{ErrDuplicateActiveBudget, "DuplicateActiveBudget"},
	{ErrRefreshTokenExpired, "RefreshTokenExpired"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrForbidden, "Forbidden"},
	{ErrTooManyRequests, "TooManyRequests"},
	{ErrDuplicate, "Duplicate"},
	{ErrNotFound, "NotFound"},
	{ErrValidation, "Validation"},
}

// Kind returns the machine readable name of the first known error kind in err's chain.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}

// AppError is an error carrying an HTTP status code and a client facing message.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with an HTTP status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError returns a 400 AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewNotFoundError returns a 404 AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message, Err: ErrUnauthorized}
}

func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: ErrInternal}
}

func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: http.StatusGatewayTimeout, Message: message}
}
