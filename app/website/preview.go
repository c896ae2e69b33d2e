package website

import (
	"context"
	"io"
	"time"

	"github.com/promomark/website/core/contact"
	"github.com/promomark/website/core/email/templates"
)

// SampleEmailModel is the data shown by the preview command.
func SampleEmailModel(now time.Time) contact.EmailModel {
	return contact.EmailModel{
		Name:        "Ana Horvat",
		Email:       "ana@example.com",
		Message:     "Hello,\nplease send me an offer for 500 branded notebooks.\n\nThanks!",
		PageName:    "Contact",
		SubmittedAt: now,
	}
}

// PreviewEmail renders the contact email with sample data to w.
func PreviewEmail(ctx context.Context, w io.Writer, now time.Time) error {
	html, err := templates.NewRegistry(contact.Templates()).
		Render(ctx, contact.TemplateContactForm, SampleEmailModel(now))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, html)
	return err
}
