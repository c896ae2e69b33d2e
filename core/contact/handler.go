package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/promomark/website/core/content"
	"github.com/promomark/website/core/handler"
	"github.com/promomark/website/core/logger"
	"github.com/promomark/website/core/response"
	"github.com/promomark/website/middleware"
	"github.com/promomark/website/pkg/clientip"
)

// FlashKey is the flash entry set after a successful non-AJAX submission.
const FlashKey = "contactSuccess"

const (
	alertSuccess = "alert-success"
	alertDanger  = "alert-danger"

	msgInvalid          = "Please correct the highlighted errors."
	msgMissingRecipient = "The email recipient is not configured."
	msgSendFailed       = "Sending the message failed. Please try again later."
	msgSuccess          = "Your message has been sent. Thank you!"
	msgThrottled        = "Too many messages sent. Please try again later."

	maxFormMemory = 64 << 10
)

// Submitter processes a contact form submission. *Service satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req Request) error
}

// FlashStore keeps one-shot values across a redirect. *cookie.Manager
// satisfies it.
type FlashStore interface {
	SetFlash(w http.ResponseWriter, key string, value any) error
	GetFlash(w http.ResponseWriter, r *http.Request, key string, dest any) error
}

// Result is the JSON body returned to AJAX submissions.
type Result struct {
	Success bool              `json:"success"`
	Alert   string            `json:"alert"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Handler serves content pages and accepts contact form posts on any of them.
type Handler struct {
	site    content.Site
	service Submitter
	flash   FlashStore
	siteKey string
	logger  *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithSiteKey sets the public reCAPTCHA key embedded in forms.
func WithSiteKey(key string) HandlerOption {
	return func(h *Handler) {
		h.siteKey = key
	}
}

// WithHandlerLogger sets the logger for page and submission errors.
// A nil logger is ignored.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a Handler.
func NewHandler(site content.Site, service Submitter, flash FlashStore, opts ...HandlerOption) *Handler {
	h := &Handler{
		site:    site,
		service: service,
		flash:   flash,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the page and submission endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/*", handler.Handle(h.Show, response.ErrorHandler))
	r.Post("/*", handler.Handle(h.Submit, response.ErrorHandler))
}

// Show renders the requested page.
func (h *Handler) Show(r *http.Request) handler.Response {
	page, ok := h.site.Page(r.URL.Path)
	if !ok {
		return response.Error(response.ErrNotFound)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		var success bool
		if page.ContactForm {
			_ = h.flash.GetFlash(w, r, FlashKey, &success)
		}
		return response.Templ(PageView(h.pageData(r, page, FormState{Success: success})))(w, r)
	}
}

// Submit handles a contact form post.
func (h *Handler) Submit(r *http.Request) handler.Response {
	page, ok := h.site.Page(r.URL.Path)
	if !ok {
		return response.Error(response.ErrNotFound)
	}

	if err := parseForm(r); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return response.Error(response.ErrRequestTooLarge)
		}
		return response.Error(response.ErrBadRequest)
	}

	sub := Submission{
		Name:    r.PostFormValue(FieldName),
		Email:   r.PostFormValue(FieldEmail),
		Message: r.PostFormValue(FieldMessage),
	}

	remoteIP, ok := middleware.GetClientIP(r.Context())
	if !ok {
		remoteIP = clientip.GetIP(r)
	}

	err := h.service.Submit(r.Context(), Request{
		Submission: sub,
		Token:      r.PostFormValue(FieldToken),
		RemoteIP:   remoteIP,
		Page:       page,
	})

	result, verr := toResult(err)

	if IsAJAX(r) {
		return response.JSON(result)
	}

	if result.Success {
		return func(w http.ResponseWriter, r *http.Request) error {
			if err := h.flash.SetFlash(w, FlashKey, true); err != nil {
				h.logger.ErrorContext(r.Context(), "failed to set contact flash",
					logger.Component("contact"),
					logger.Error(err),
				)
			}
			return response.RedirectSeeOther(page.Path)(w, r)
		}
	}

	state := FormState{Values: sub, Errors: verr}
	if verr == nil {
		state.General = []string{result.Message}
	}
	return response.Templ(PageView(h.pageData(r, page, state)))
}

// Throttled answers a submission rejected by the rate limiter in the same
// shape as a failed submission, with status 429.
func (h *Handler) Throttled(r *http.Request) handler.Response {
	result := Result{Alert: alertDanger, Message: msgThrottled}
	if IsAJAX(r) {
		return response.JSONWithStatus(result, http.StatusTooManyRequests)
	}

	page, ok := h.site.Page(r.URL.Path)
	if !ok {
		return response.Error(response.ErrNotFound)
	}
	state := FormState{General: []string{result.Message}}
	return response.TemplWithStatus(PageView(h.pageData(r, page, state)), http.StatusTooManyRequests)
}

func (h *Handler) pageData(r *http.Request, page *content.Page, form FormState) PageData {
	return PageData{
		Root:      h.site.Root(),
		Page:      page,
		SiteKey:   h.siteKey,
		CSRFToken: middleware.GetAntiForgeryToken(r.Context()),
		Form:      form,
	}
}

// toResult maps a Submit outcome to the client-facing result. Internal
// error details never reach the visitor.
func toResult(err error) (Result, *ValidationError) {
	var verr *ValidationError
	switch {
	case err == nil:
		return Result{Success: true, Alert: alertSuccess, Message: msgSuccess}, nil
	case errors.As(err, &verr):
		return Result{Alert: alertDanger, Message: msgInvalid, Errors: verr.Fields}, verr
	case errors.Is(err, ErrMissingRecipient):
		return Result{Alert: alertDanger, Message: msgMissingRecipient}, nil
	default:
		return Result{Alert: alertDanger, Message: msgSendFailed}, nil
	}
}

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

// IsAJAX reports whether the request was sent by the form script.
func IsAJAX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
