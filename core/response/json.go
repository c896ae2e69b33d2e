package response

import (
	"encoding/json"
	"net/http"

	"github.com/promomark/website/core/handler"
)

// JSON writes v as application/json with 200 OK.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus writes v as application/json. v is encoded before any
// header is written, so an encoding failure reaches the error handler with
// the response still untouched. A zero status means 200, or 204 for nil v.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status == 0 {
			status = http.StatusOK
			if v == nil {
				status = http.StatusNoContent
			}
		}
		if status == http.StatusNoContent || status == http.StatusNotModified {
			w.WriteHeader(status)
			return nil
		}

		body, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return write("application/json; charset=utf-8", append(body, '\n'), status)(w, r)
	}
}
