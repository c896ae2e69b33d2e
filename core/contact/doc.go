// Package contact implements the website contact form.
//
// A submission moves through verification, validation, recipient
// resolution and dispatch in strict sequence:
//
//  1. The reCAPTCHA token is verified. A failure becomes a general
//     validation message; the remaining checks still run.
//  2. Trimmed Name, Email and Message are validated and every problem is
//     collected into a *ValidationError.
//  3. The recipient is the nearest contact address on the page's
//     ancestor-or-self chain. None configured yields ErrMissingRecipient.
//  4. EmailModel is rendered through the TemplateContactForm template and
//     sent once with DefaultSubject and the visitor as Reply-To. Any
//     failure yields an error wrapping ErrSendFailed.
//
// Handler exposes the flow over HTTP. Requests carrying
// X-Requested-With: XMLHttpRequest always get 200 with a JSON Result.
// Plain form posts either redirect with a contactSuccess flash or
// re-render the page with errors and the submitted values.
package contact
