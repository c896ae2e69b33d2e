package response

import (
	"errors"
	"net/http"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// convertToHTTPError converts any error to an HTTPError.
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	baseErr, ok := httpErrorsByStatus[status]
	if !ok {
		baseErr = ErrInternalServerError
	}
	// The cause stays out of the body; callers log it.
	return baseErr
}

// ErrorHandler writes errors as plain text.
func ErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := convertToHTTPError(err)
	_ = String(httpErr.Message, httpErr.Status)(w, r)
}

// JSONErrorHandler writes errors as JSON envelopes.
func JSONErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := convertToHTTPError(err)
	_ = JSONWithStatus(httpErr, httpErr.Status)(w, r)
}
