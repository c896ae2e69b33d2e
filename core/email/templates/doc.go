// Package templates renders HTML email bodies from templ components.
//
// A Registry maps view names to factories that turn a model into a
// component:
//
//	registry := templates.NewRegistry(map[string]templates.Factory{
//		"emails/contact_form": templates.Typed(contact.Email),
//	})
//	html, err := registry.Render(ctx, "emails/contact_form", model)
//
// Unknown names fail with ErrTemplateNotFound and mistyped models with
// ErrInvalidModel; rendering is never best-effort. The components
// subpackage provides the table-based building blocks the email views use.
package templates
