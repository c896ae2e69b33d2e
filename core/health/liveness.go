package health

import (
	"net/http"

	"github.com/promomark/website/core/handler"
	"github.com/promomark/website/core/response"
)

// Liveness reports that the process is up. It never checks dependencies.
//
//	r.Get("/healthz", handler.Handle(health.Liveness, nil))
func Liveness(*http.Request) handler.Response {
	return response.String("ALIVE", http.StatusOK)
}
