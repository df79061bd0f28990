package response

import (
	"errors"
	"time"

	"github.com/snowflakedb/gosnowflake"

	"snowflake-admin/internal/model"
	"snowflake-admin/internal/utils"
)

// StandardResponse represents a standardized API response
type StandardResponse struct {
	Success       bool       `json:"success"`
	Data          any        `json:"data,omitempty"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlationId"`
	Timestamp     time.Time  `json:"timestamp"`
}

// ErrorInfo represents error information in responses
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	// Warehouse is set when Snowflake itself rejected the statement
	Warehouse *WarehouseError `json:"warehouse,omitempty"`
}

// WarehouseError carries the identifiers Snowflake support asks for
type WarehouseError struct {
	Number   int    `json:"number"`
	SQLState string `json:"sqlState,omitempty"`
	QueryID  string `json:"queryId,omitempty"`
}

// SuccessResponse creates a successful response
func SuccessResponse(data any, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success:       true,
		Data:          data,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// QueryResultResponse wraps a query result with its row count and timing
func QueryResultResponse(result *model.QueryResult, started time.Time, correlationID string) *StandardResponse {
	return SuccessResponse(model.QueryResponse{
		Result: result,
		Metadata: model.QueryMetadata{
			RowCount:        rowCount(result),
			ExecutionTimeMs: time.Since(started).Milliseconds(),
			ExecutedAt:      started,
		},
	}, correlationID)
}

func rowCount(result *model.QueryResult) int {
	switch {
	case result.Frame != nil:
		return result.Frame.Len()
	case result.List != nil:
		return len(result.List)
	default:
		return 1
	}
}

// ErrorResponse creates an error response
func ErrorResponse(code, message, details, correlationID string) *StandardResponse {
	return &StandardResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// ErrorResponseFromAppError creates an error response from AppError,
// attaching Snowflake's error identifiers when the driver raised it
func ErrorResponseFromAppError(appErr *utils.AppError, correlationID string) *StandardResponse {
	resp := ErrorResponse(appErr.Code, appErr.Message, appErr.Details, correlationID)

	var sfErr *gosnowflake.SnowflakeError
	if errors.As(appErr, &sfErr) {
		resp.Error.Warehouse = &WarehouseError{
			Number:   sfErr.Number,
			SQLState: sfErr.SQLState,
			QueryID:  sfErr.QueryID,
		}
	}
	return resp
}

// ValidationErrorResponse creates a validation error response
func ValidationErrorResponse(message string, correlationID string) *StandardResponse {
	return ErrorResponse(utils.ErrCodeValidationFailed, message, "", correlationID)
}

// UnauthorizedResponse creates an unauthorized error response
func UnauthorizedResponse(message string, correlationID string) *StandardResponse {
	if message == "" {
		message = "Unauthorized access"
	}
	return ErrorResponse(utils.ErrCodeUnauthorized, message, "", correlationID)
}
