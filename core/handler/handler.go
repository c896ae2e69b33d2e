package handler

import "net/http"

// Response is a function that renders HTTP responses.
// It sets headers, status code, and writes the response body.
// Rendering errors are passed to the ErrorHandler given to Handle.
type Response func(w http.ResponseWriter, r *http.Request) error

// Func is an HTTP request handler that returns a Response instead of writing directly.
type Func func(r *http.Request) Response

// ErrorHandler handles errors returned by a Response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Handle adapts fn to http.HandlerFunc. A nil Response writes nothing.
// When onErr is nil, errors are reported as 500 Internal Server Error.
func Handle(fn Func, onErr ErrorHandler) http.HandlerFunc {
	if onErr == nil {
		onErr = defaultErrorHandler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(r)
		if resp == nil {
			return
		}
		if err := resp(w, r); err != nil {
			onErr(w, r, err)
		}
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
