// Package apperror provides structured error handling for the inventory core.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes following domain-driven design
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"
	CodeTimeout  = "TIMEOUT_ERROR"

	// Validation errors (400)
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"

	// Business rule violations (422)
	CodeBusinessRule            = "BUSINESS_RULE_VIOLATION"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeInsufficientAvail       = "INSUFFICIENT_AVAILABILITY"
	CodeInvalidStateTransition  = "INVALID_STATE_TRANSITION"
	CodeMissingWarehouseForType = "MISSING_WAREHOUSE_FOR_TYPE"
	CodeConcurrentModification  = "CONCURRENT_MODIFICATION"

	// External collaborator failures (502)
	CodeFinanceIntegration = "FINANCE_INTEGRATION_FAILURE"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict        = "CONFLICT"
	CodeDuplicate       = "DUPLICATE_ENTRY"
	CodeDuplicateSerial = "DUPLICATE_SERIAL_NUMBER"
)

// AppError is the standard error type for the core.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (entity ids, quantities, states)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInsufficientStock creates a stock shortage error.
// Raised when a ledger delta would drive the row quantity negative.
func NewInsufficientStock(itemID, warehouseID string, requested, available float64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    fmt.Sprintf("insufficient stock: requested %.4f, available %.4f", requested, available),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"item_id":      itemID,
			"warehouse_id": warehouseID,
			"requested":    requested,
			"available":    available,
		},
	}
}

// NewInsufficientAvailability is raised when a reservation exceeds the
// unreserved part of a stock row.
func NewInsufficientAvailability(itemID, warehouseID string, requested, available float64) *AppError {
	return &AppError{
		Code:       CodeInsufficientAvail,
		Message:    fmt.Sprintf("insufficient availability: requested %.4f, available %.4f", requested, available),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"item_id":      itemID,
			"warehouse_id": warehouseID,
			"requested":    requested,
			"available":    available,
		},
	}
}

// NewInvalidStateTransition is raised when a unit operation is attempted from
// a state it is not legal in. The message always names the current state.
func NewInvalidStateTransition(unitID, fromStatus, toStatus string) *AppError {
	return &AppError{
		Code:       CodeInvalidStateTransition,
		Message:    fmt.Sprintf("unit is in state %s, transition to %s is not allowed", fromStatus, toStatus),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"unit_id":     unitID,
			"from_status": fromStatus,
			"to_status":   toStatus,
		},
	}
}

// NewMissingWarehouseForType is raised when a movement intent lacks a
// warehouse reference its type requires.
func NewMissingWarehouseForType(movementType, side string) *AppError {
	return &AppError{
		Code:       CodeMissingWarehouseForType,
		Message:    fmt.Sprintf("movement type %s requires a %s warehouse", movementType, side),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"movement_type": movementType,
			"side":          side,
		},
	}
}

// NewDuplicateSerial is raised at batch creation when a serial number is
// already taken, including by soft-deleted units.
func NewDuplicateSerial(serialNumber string) *AppError {
	return &AppError{
		Code:       CodeDuplicateSerial,
		Message:    fmt.Sprintf("serial number %s is already in use", serialNumber),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"serial_number": serialNumber},
	}
}

// NewFinanceIntegration wraps a Finance collaborator failure. The originating
// movement is rolled back in full.
func NewFinanceIntegration(reference string, err error) *AppError {
	return &AppError{
		Code:       CodeFinanceIntegration,
		Message:    "finance expense recording failed, movement aborted",
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"reference": reference},
		Err:        err,
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// HasCode checks if error carries the given code
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
