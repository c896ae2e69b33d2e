package components_test

import (
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/core/email/templates"
	"github.com/promomark/website/core/email/templates/components"
)

func TestLayout(t *testing.T) {
	t.Parallel()

	body := templ.Join(
		components.Heading("Hello", "sub"),
		components.Paragraph("one\ntwo"),
		components.Footer("Promomark"),
	)
	ctx := templ.WithChildren(context.Background(), body)
	html, err := templates.Render(ctx, components.Layout("Upit <novi>"))
	require.NoError(t, err)

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "<title>Upit &lt;novi&gt;</title>")
	assert.Contains(t, html, ">Hello</h1>")
	assert.Contains(t, html, ">sub</p>")
	assert.Contains(t, html, "one<br>two")
	assert.Contains(t, html, "Promomark</p>")
	assert.Contains(t, html, "</html>")
}

func TestHeading_NoSubtitle(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), components.Heading("Title", ""))
	require.NoError(t, err)
	assert.NotContains(t, html, "<p")
}

func TestField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"escapes", `<script>alert("x")</script>`, "&lt;script&gt;"},
		{"multiline", "line1\r\nline2", "line1<br>line2"},
		{"empty", "  ", "&ndash;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			html, err := templates.Render(context.Background(), components.Field("Message", tt.value))
			require.NoError(t, err)
			assert.Contains(t, html, tt.want)
			assert.Contains(t, html, ">Message</td>")
			assert.NotContains(t, html, "<script>")
		})
	}
}

func TestFieldLink(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), components.FieldLink("Email", "ana@example.com"))
	require.NoError(t, err)
	assert.Contains(t, html, `href="mailto:ana@example.com"`)
	assert.Contains(t, html, ">ana@example.com</a>")
}

func TestLayout_NoChildren(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), components.Layout("Empty"))
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Empty</title>")
	assert.Contains(t, html, `color:#1f2937;"></td>`)
}

func TestFooter_Multiline(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), components.Footer("a & b\nc"))
	require.NoError(t, err)
	assert.Contains(t, html, "a &amp; b<br>c</p>")
	assert.Contains(t, html, "<hr ")
}
