// Package components provides the building blocks for HTML emails.
//
// Components are templ templates; Layout takes the email body as children.
// In a .templ file:
//
//	templ NewEnquiry(m Model) {
//		@components.Layout("New enquiry") {
//			@components.Heading("New enquiry", "Sent from the contact page")
//			@components.Field("Name", m.Name)
//			@components.FieldLink("Email", m.Email)
//			@components.Field("Message", m.Message)
//			@components.Footer("Promomark")
//		}
//	}
//
// All text is HTML-escaped; newlines in Paragraph, Field and Footer become
// <br>. Styles are inline because most mail clients ignore <style> blocks.
//
// Regenerate components_templ.go with `templ generate` after editing
// components.templ.
package components
