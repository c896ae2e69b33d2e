package response

import (
	"net/http"

	"github.com/promomark/website/core/handler"
)

// String creates a text/plain response with custom status code.
// A zero status means 200 OK.
func String(content string, status int) handler.Response {
	return write("text/plain; charset=utf-8", []byte(content), status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return write("text/html; charset=utf-8", []byte(content), http.StatusOK)
}

// HTMLWithStatus creates a text/html response with custom status code.
func HTMLWithStatus(content string, status int) handler.Response {
	return write("text/html; charset=utf-8", []byte(content), status)
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		return nil
	}
}

// Error returns a response that propagates err to the error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}

func write(contentType string, body []byte, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", contentType)
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(body) > 0 {
			_, err := w.Write(body)
			return err
		}
		return nil
	}
}
