package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrBookNotFound is returned when a book is not found.
	ErrBookNotFound = errors.New("book not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrRecordNotFound is returned when a borrow record is not found.
	ErrRecordNotFound = errors.New("borrow record not found")
	// ErrBookUnavailable is returned when no copy is left to borrow.
	ErrBookUnavailable = errors.New("no copies of this book are currently available")
	// ErrDuplicateBorrow is returned when the user already has an open borrow for the book.
	ErrDuplicateBorrow = errors.New("book already borrowed by this user")
	// ErrAlreadyReturned is returned when a return is attempted on a returned record.
	ErrAlreadyReturned = errors.New("book has already been returned")
	// ErrRoleDenied is returned when the requester lacks the role for an operation.
	ErrRoleDenied = errors.New("operation not permitted for this role")
	// ErrActiveBorrows is returned when deletion is blocked by open borrow records.
	ErrActiveBorrows = errors.New("book has active borrows")
	// ErrDuplicateISBN is returned when the normalized ISBN already exists in the catalog.
	ErrDuplicateISBN = errors.New("a book with this ISBN already exists")
	// ErrInvalidISBN is returned when the ISBN is not 10 or 13 digits.
	ErrInvalidISBN = errors.New("ISBN must be 10 or 13 digits")
	// ErrInvalidCategory is returned when the category is not in the fixed set.
	ErrInvalidCategory = errors.New("unknown category")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOK_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRecordNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECORD_NOT_FOUND")
	case errors.Is(err, ErrBookUnavailable):
		return NewHTTPError(http.StatusConflict, err.Error(), "BOOK_UNAVAILABLE")
	case errors.Is(err, ErrDuplicateBorrow):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_BORROW")
	case errors.Is(err, ErrAlreadyReturned):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_RETURNED")
	case errors.Is(err, ErrRoleDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ROLE_DENIED")
	case errors.Is(err, ErrActiveBorrows):
		return NewHTTPError(http.StatusConflict, err.Error(), "ACTIVE_BORROWS")
	case errors.Is(err, ErrDuplicateISBN):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_ISBN")
	case errors.Is(err, ErrInvalidISBN):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ISBN")
	case errors.Is(err, ErrInvalidCategory):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CATEGORY")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
