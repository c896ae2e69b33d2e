package response

import (
	"net/http"

	"github.com/promomark/website/core/handler"
)

// Redirect creates a 302 Found response.
func Redirect(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectSeeOther creates a 303 See Other response.
// Use it after a successful POST so a reload does not resubmit the form.
func RedirectSeeOther(url string) handler.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus creates a redirect with a custom status code.
// Status codes outside the 3xx range fall back to 302.
func RedirectWithStatus(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status < 300 || status >= 400 {
			status = http.StatusFound
		}
		http.Redirect(w, r, url, status)
		return nil
	}
}
