package services

import "errors"

var (
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrProductNotFound    = errors.New("product not found")
	ErrCheckoutInProgress = errors.New("a checkout is already in progress for this session")
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrForbidden          = errors.New("admin role required")
)

// Validation error codes
const (
	CodeEmptyCart    = "EMPTY_CART"
	CodeInvalidBuyer = "INVALID_BUYER"
	CodeInvalidInput = "INVALID_INPUT"
)

// ValidationError blocks an action before any request is sent
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(code, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}
