package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/snowflakedb/gosnowflake"

	"snowflake-admin/internal/model"
	"snowflake-admin/internal/snowflake"
	"snowflake-admin/internal/sqltemplate"
)

// Error codes with HTTP status mapping
const (
	// General errors
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeValidationFailed   = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidJSON        = "INVALID_JSON"

	// Warehouse errors
	ErrCodeConnectionFailed  = "CONNECTION_FAILED"
	ErrCodeQueryFailed       = "QUERY_FAILED"
	ErrCodeQueryTimeout      = "QUERY_TIMEOUT"
	ErrCodeEmptyResult       = "EMPTY_RESULT"
	ErrCodeTransactionFailed = "TRANSACTION_FAILED"

	// Template and definition errors
	ErrCodeTemplateNotFound     = "TEMPLATE_NOT_FOUND"
	ErrCodeTemplateRenderFailed = "TEMPLATE_RENDER_FAILED"
	ErrCodeInvalidObjectType    = "INVALID_OBJECT_TYPE"
	ErrCodeInvalidReturnType    = "INVALID_RETURN_TYPE"
	ErrCodeInvalidDefinition    = "INVALID_DEFINITION"

	// Authentication errors
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeInvalidToken = "INVALID_TOKEN"
)

// HTTPStatus maps error codes to HTTP status codes
var HTTPStatus = map[string]int{
	ErrCodeInvalidRequest:     http.StatusBadRequest,
	ErrCodeValidationFailed:   http.StatusUnprocessableEntity,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeInternalError:      http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeRateLimitExceeded:  http.StatusTooManyRequests,
	ErrCodeInvalidJSON:        http.StatusBadRequest,

	ErrCodeConnectionFailed:  http.StatusServiceUnavailable,
	ErrCodeQueryFailed:       http.StatusBadGateway,
	ErrCodeQueryTimeout:      http.StatusGatewayTimeout,
	ErrCodeEmptyResult:       http.StatusNotFound,
	ErrCodeTransactionFailed: http.StatusBadGateway,

	ErrCodeTemplateNotFound:     http.StatusNotFound,
	ErrCodeTemplateRenderFailed: http.StatusUnprocessableEntity,
	ErrCodeInvalidObjectType:    http.StatusBadRequest,
	ErrCodeInvalidReturnType:    http.StatusBadRequest,
	ErrCodeInvalidDefinition:    http.StatusBadRequest,

	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeInvalidToken: http.StatusUnauthorized,
}

// AppError represents an application error with additional context
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status for the error's code
func (e *AppError) Status() int {
	if status, ok := HTTPStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorBuilder provides a fluent interface for creating errors
type ErrorBuilder struct {
	code    string
	message string
	details string
	cause   error
}

// NewErrorBuilder creates a new error builder
func NewErrorBuilder(code string) *ErrorBuilder {
	return &ErrorBuilder{code: code}
}

func (eb *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	eb.message = message
	return eb
}

func (eb *ErrorBuilder) WithDetails(details string) *ErrorBuilder {
	eb.details = details
	return eb
}

func (eb *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	eb.cause = cause
	return eb
}

// Build constructs the final AppError
func (eb *ErrorBuilder) Build() *AppError {
	if eb.message == "" {
		eb.message = getDefaultMessage(eb.code)
	}
	return &AppError{
		Code:    eb.code,
		Message: eb.message,
		Details: eb.details,
		Cause:   eb.cause,
	}
}

func getDefaultMessage(code string) string {
	messages := map[string]string{
		ErrCodeInvalidRequest:     "The request is invalid",
		ErrCodeValidationFailed:   "Validation failed",
		ErrCodeUnauthorized:       "Unauthorized access",
		ErrCodeForbidden:          "Access forbidden",
		ErrCodeNotFound:           "Resource not found",
		ErrCodeInternalError:      "Internal server error",
		ErrCodeServiceUnavailable: "Service temporarily unavailable",
		ErrCodeRateLimitExceeded:  "Rate limit exceeded",
		ErrCodeInvalidJSON:        "Invalid JSON format",

		ErrCodeConnectionFailed:  "Snowflake connection failed",
		ErrCodeQueryFailed:       "Query execution failed",
		ErrCodeQueryTimeout:      "Query timeout",
		ErrCodeEmptyResult:       "Query returned no rows",
		ErrCodeTransactionFailed: "Transaction failed",

		ErrCodeTemplateNotFound:     "Template not found",
		ErrCodeTemplateRenderFailed: "Template rendering failed",
		ErrCodeInvalidObjectType:    "Unknown object type",
		ErrCodeInvalidReturnType:    "Unknown return type",
		ErrCodeInvalidDefinition:    "Invalid object definition",

		ErrCodeTokenExpired: "Token expired",
		ErrCodeInvalidToken: "Invalid token",
	}

	if msg, exists := messages[code]; exists {
		return msg
	}
	return "Unknown error"
}

// FromError classifies err into an AppError. Errors that already are one
// are returned as-is; driver errors keep their text in Details.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	code := ErrCodeInternalError
	var (
		sfErr      *gosnowflake.SnowflakeError
		validation validator.ValidationErrors
	)
	switch {
	case errors.Is(err, sqltemplate.ErrTemplateNotFound):
		code = ErrCodeTemplateNotFound
	case errors.Is(err, sqltemplate.ErrRender):
		code = ErrCodeTemplateRenderFailed
	case errors.Is(err, model.ErrUnknownObjectType):
		code = ErrCodeInvalidObjectType
	case errors.Is(err, model.ErrInvalidReturnType):
		code = ErrCodeInvalidReturnType
	case errors.Is(err, model.ErrInvalidDefinition),
		errors.Is(err, model.ErrColumnNotFound),
		errors.Is(err, snowflake.ErrNoColumns),
		errors.Is(err, snowflake.ErrRowWidth):
		code = ErrCodeInvalidDefinition
	case errors.As(err, &validation):
		code = ErrCodeValidationFailed
	case errors.Is(err, snowflake.ErrEmptyResult):
		code = ErrCodeEmptyResult
	case errors.Is(err, snowflake.ErrClosed):
		code = ErrCodeServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = ErrCodeQueryTimeout
	case errors.As(err, &sfErr):
		code = ErrCodeQueryFailed
		if isConnectionError(sfErr) {
			code = ErrCodeConnectionFailed
		}
	}

	return NewErrorBuilder(code).
		WithDetails(err.Error()).
		WithCause(err).
		Build()
}

// isConnectionError reports login and session failures, which the driver
// numbers in the 390xxx range
func isConnectionError(err *gosnowflake.SnowflakeError) bool {
	return err.Number >= 390000 && err.Number < 391000
}
