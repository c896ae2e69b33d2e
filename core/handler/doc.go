// Package handler defines the Response type returned by request handlers and
// the adapter that turns such handlers into standard http.HandlerFunc values.
//
//	mux.Get("/", handler.Handle(func(r *http.Request) handler.Response {
//		return response.JSON(map[string]string{"status": "ok"})
//	}, response.JSONErrorHandler))
//
// Handlers never write to the ResponseWriter directly; they return a
// Response that does. Errors returned while rendering go to the
// ErrorHandler supplied to Handle.
package handler
