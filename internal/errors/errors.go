package errors

import (
	"errors"
	"net/http"
)

// Kind classifies domain failures by how they surface to the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthenticated
	KindUnauthorized
	KindNotFound
)

// Error is a domain error carrying a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Code    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind and code so that wrapped copies still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// New creates a domain error.
func New(kind Kind, message, code string) *Error {
	return &Error{Kind: kind, Message: message, Code: code}
}

// Wrap returns a copy of sentinel that records cause.
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Code: sentinel.Code, Err: cause}
}

var (
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = New(KindValidation, "Please fill all details", "MISSING_CREDENTIALS")
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = New(KindConflict, "User already exists", "USER_ALREADY_EXISTS")
	// ErrUserNotFound is returned when no user matches an email or token subject.
	ErrUserNotFound = New(KindNotFound, "User not found", "USER_NOT_FOUND")
	// ErrInvalidPassword is returned when the password does not match the stored hash.
	ErrInvalidPassword = New(KindUnauthorized, "Invalid password", "INVALID_PASSWORD")

	ErrTokenMissing = New(KindUnauthenticated, "Unauthorized: No token provided", "TOKEN_MISSING")
	ErrTokenExpired = New(KindUnauthenticated, "Unauthorized: Token expired", "TOKEN_EXPIRED")
	ErrTokenInvalid = New(KindUnauthenticated, "Unauthorized: Invalid token", "TOKEN_INVALID")
	ErrTokenRevoked = New(KindUnauthenticated, "Unauthorized: Token revoked", "TOKEN_REVOKED")

	// ErrMissingContactFields is returned when name, email or phone is empty.
	ErrMissingContactFields = New(KindValidation, "Please provide all required fields", "MISSING_FIELDS")
	// ErrInvalidPagination is returned for non-numeric page or limit values.
	ErrInvalidPagination = New(KindValidation, "Invalid pagination parameters", "INVALID_PAGINATION")
	// ErrInvalidBody is returned when a request body cannot be decoded.
	ErrInvalidBody = New(KindValidation, "Invalid request body", "INVALID_BODY")
	// ErrContactNotFound is returned for missing contacts and contacts owned by someone else.
	ErrContactNotFound = New(KindNotFound, "Contact not found", "CONTACT_NOT_FOUND")

	// ErrRouteNotFound is returned for unmatched routes.
	ErrRouteNotFound = New(KindNotFound, "Resource not found", "NOT_FOUND")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// StatusCode returns the HTTP status for a kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated, KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not a
// domain error becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindInternal {
		return NewHTTPError(de.Kind.StatusCode(), de.Message, de.Code)
	}
	return NewHTTPError(http.StatusInternalServerError, "Internal Server Error", "INTERNAL_ERROR")
}
