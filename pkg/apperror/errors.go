package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError so callers can branch on the failure mode
// without inspecting the message.
type Kind string

const (
	KindProductNotFound   Kind = "product_not_found"
	KindCustomerNotFound  Kind = "customer_not_found"
	KindShopNotFound      Kind = "shop_not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindValidation        Kind = "validation"
	KindBadRequest        Kind = "bad_request"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches on Kind, so errors.Is(err, ErrProductNotFound) holds for any
// product-not-found error regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return e == t
	}
	return e.Kind == t.Kind
}

// Common errors
var (
	ErrProductNotFound   = &AppError{Code: http.StatusNotFound, Kind: KindProductNotFound, Message: "Product not found"}
	ErrCustomerNotFound  = &AppError{Code: http.StatusNotFound, Kind: KindCustomerNotFound, Message: "Customer not found"}
	ErrShopNotFound      = &AppError{Code: http.StatusNotFound, Kind: KindShopNotFound, Message: "Shop not found"}
	ErrInsufficientStock = &AppError{Code: http.StatusConflict, Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrValidation        = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Validation failed"}
	ErrBadRequest        = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrConflict          = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrInternalServer    = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors ...FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a shorthand for a single-field validation error
func NewFieldError(field, message string) *AppError {
	return NewValidationError(FieldError{Field: field, Message: message})
}

// NewProductNotFound creates a product-not-found error with a custom message
func NewProductNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindProductNotFound, Message: message}
}

// NewCustomerNotFound creates a customer-not-found error with a custom message
func NewCustomerNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindCustomerNotFound, Message: message}
}

// NewShopNotFound creates a shop-not-found error with a custom message
func NewShopNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindShopNotFound, Message: message}
}

// NewInsufficientStock creates an insufficient-stock error with a custom message
func NewInsufficientStock(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindInsufficientStock, Message: message}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: message}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: message}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsNotFound reports whether err is any of the not-found kinds
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrShopNotFound)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
