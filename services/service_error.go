package services

import "net/http"

// Error kinds surfaced in the response envelope alongside the message.
const (
	KindValidation        = "validation"
	KindConflict          = "conflict"
	KindInvalidTransition = "invalid_transition"
	KindInvalidPromo      = "invalid_promo"
	KindNotFound          = "not_found"
	KindForbidden         = "forbidden"
	KindInternal          = "internal"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func validationError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

func conflictError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindConflict, Message: msg}
}

func invalidTransitionError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindInvalidTransition, Message: msg}
}

func invalidPromoError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindInvalidPromo, Message: msg}
}

func notFoundError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func forbiddenError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

func internalError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Kind: KindInternal, Message: msg}
}
