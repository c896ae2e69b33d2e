package response

import "net/http"

// HTTPError represents a structured error response that implements the error interface.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

func newHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

var (
	ErrBadRequest          = newHTTPError(http.StatusBadRequest, "bad_request")
	ErrForbidden           = newHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound            = newHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed    = newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrRequestTooLarge     = newHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrTooManyRequests     = newHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError = newHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrServiceUnavailable  = newHTTPError(http.StatusServiceUnavailable, "service_unavailable")
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusRequestEntityTooLarge: ErrRequestTooLarge,
	http.StatusTooManyRequests:       ErrTooManyRequests,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
}
