package contact_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/core/contact"
	"github.com/promomark/website/core/email/templates"
)

func TestEmailView(t *testing.T) {
	t.Parallel()

	registry := templates.NewRegistry(contact.Templates())
	assert.Equal(t, []string{contact.TemplateContactForm}, registry.Names())

	html, err := registry.Render(context.Background(), contact.TemplateContactForm, contact.EmailModel{
		Name:        "Ana <script>",
		Email:       "ana@example.com",
		Message:     "Line one\nLine two",
		PageName:    "Contact",
		SubmittedAt: fixedNow,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Ana &lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, `href="mailto:ana@example.com"`)
	assert.Contains(t, html, "Line one<br>Line two")
	assert.Contains(t, html, "14.03.2025 09:30 UTC")
	assert.Contains(t, html, "Contact")
}

func TestEmailView_PointerModelAndWrongType(t *testing.T) {
	t.Parallel()

	registry := templates.NewRegistry(contact.Templates())

	_, err := registry.Render(context.Background(), contact.TemplateContactForm, &contact.EmailModel{Name: "Ana"})
	require.NoError(t, err)

	_, err = registry.Render(context.Background(), contact.TemplateContactForm, "not a model")
	assert.ErrorIs(t, err, templates.ErrInvalidModel)
}
