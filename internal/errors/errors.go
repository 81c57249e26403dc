package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a domain failure. The HTTP layer maps kinds to status
// codes and error-type strings; services never deal in status codes.
type Kind int

const (
	KindCardNotFound Kind = iota
	KindUserNotFound
	KindCardAlreadyExists
	KindInvalidCardNumber
	KindInsufficientFunds
	KindOperationNotAllowed
	KindAccessDenied
	KindValidationFailure
	KindCryptoFailure
	KindUnauthenticated
)

// Error is a typed domain failure carrying a human message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is allows errors.Is matching on the kind via sentinel comparisons.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// CardNotFound builds a card-not-found error.
func CardNotFound(format string, args ...interface{}) *Error {
	return newf(KindCardNotFound, format, args...)
}

// UserNotFound builds a user-not-found error.
func UserNotFound(format string, args ...interface{}) *Error {
	return newf(KindUserNotFound, format, args...)
}

// CardAlreadyExists builds a duplicate-card error.
func CardAlreadyExists(format string, args ...interface{}) *Error {
	return newf(KindCardAlreadyExists, format, args...)
}

// InvalidCardNumber builds a card-number validation error.
func InvalidCardNumber(format string, args ...interface{}) *Error {
	return newf(KindInvalidCardNumber, format, args...)
}

// InsufficientFunds builds an insufficient-funds error.
func InsufficientFunds(format string, args ...interface{}) *Error {
	return newf(KindInsufficientFunds, format, args...)
}

// OperationNotAllowed builds a forbidden-operation error.
func OperationNotAllowed(format string, args ...interface{}) *Error {
	return newf(KindOperationNotAllowed, format, args...)
}

// AccessDenied builds an access-denied error.
func AccessDenied(format string, args ...interface{}) *Error {
	return newf(KindAccessDenied, format, args...)
}

// ValidationFailure builds a request-validation error.
func ValidationFailure(format string, args ...interface{}) *Error {
	return newf(KindValidationFailure, format, args...)
}

// CryptoFailure builds a cryptographic-operation error.
func CryptoFailure(format string, args ...interface{}) *Error {
	return newf(KindCryptoFailure, format, args...)
}

// Unauthenticated marks a call that reached a service with no principal.
// This is a programmer error at the HTTP boundary, not a user failure.
func Unauthenticated(format string, args ...interface{}) *Error {
	return newf(KindUnauthenticated, format, args...)
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// ErrorResponse is the JSON body returned for typed domain failures.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

// MapToHTTP translates any error into an HTTP status and response body.
// Unknown errors are redacted to avoid leaking internals.
func MapToHTTP(err error) (int, ErrorResponse) {
	status := http.StatusInternalServerError
	errType := "Internal Server Error"
	message := "An unexpected error occurred"

	var de *Error
	if errors.As(err, &de) {
		message = de.Message
		switch de.Kind {
		case KindCardNotFound:
			status, errType = http.StatusNotFound, "Card Not Found"
		case KindUserNotFound:
			status, errType = http.StatusNotFound, "User Not Found"
		case KindInsufficientFunds:
			status, errType = http.StatusBadRequest, "Insufficient Funds"
		case KindOperationNotAllowed:
			status, errType = http.StatusForbidden, "Operation Not Allowed"
		case KindAccessDenied:
			status, errType = http.StatusForbidden, "Access Denied"
		case KindCardAlreadyExists:
			status, errType = http.StatusConflict, "Card Already Exists"
		case KindInvalidCardNumber, KindValidationFailure:
			status, errType = http.StatusBadRequest, "Validation Failed"
		case KindUnauthenticated:
			status, errType = http.StatusUnauthorized, "Unauthorized"
		default:
			message = "An unexpected error occurred"
		}
	}

	return status, ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     errType,
		Message:   message,
	}
}
