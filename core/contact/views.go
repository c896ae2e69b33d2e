package contact

import (
	"net/url"
	"strings"

	"github.com/promomark/website/core/content"
)

// Form field names outside the submission itself.
const (
	FieldToken      = "g-recaptcha-response"
	recaptchaAction = "contact"
)

const recaptchaScript = "https://www.google.com/recaptcha/api.js?render="

// FormState carries what the contact form shows after a round trip.
type FormState struct {
	Values  Submission
	Errors  *ValidationError
	General []string
	Success bool
}

// PageData is the model of a rendered content page.
type PageData struct {
	Root      *content.Page
	Page      *content.Page
	SiteKey   string
	CSRFToken string
	Form      FormState
}

func pageTitle(p *content.Page) string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

func recaptchaScriptURL(siteKey string) string {
	return recaptchaScript + url.QueryEscape(siteKey)
}

// paragraphs splits a page body on blank lines.
func paragraphs(body string) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n\n")
}

func navPages(root *content.Page) []*content.Page {
	return append([]*content.Page{root}, root.Children...)
}

// alertMessages lists the general errors shown above the form, field
// independent ones first. A failed round trip without any gets msgInvalid.
func alertMessages(f FormState) []string {
	if f.Errors == nil && len(f.General) == 0 {
		return nil
	}
	var msgs []string
	if f.Errors != nil {
		msgs = append(msgs, f.Errors.General...)
	}
	msgs = append(msgs, f.General...)
	if len(msgs) == 0 {
		msgs = []string{msgInvalid}
	}
	return msgs
}

func inputID(name string) string {
	return "contact-" + strings.ToLower(name)
}
