// Package response provides handler.Response constructors for the responses
// the website produces: JSON, HTML, templ components, redirects and
// structured errors.
//
//	func page(r *http.Request) handler.Response {
//		if !found {
//			return response.Error(response.ErrNotFound)
//		}
//		return response.Templ(views.Page(model))
//	}
//
// Errors that implement StatusCode() int are mapped to the matching
// HTTPError by ErrorHandler and JSONErrorHandler; anything else becomes a
// 500. Error causes are never written to the client.
package response
