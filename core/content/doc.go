// Package content holds the site's page tree and answers the lookups the
// contact form needs: which page a request path refers to and which address
// receives messages sent from it.
//
// The tree is loaded once from YAML and never mutated:
//
//	name: Promomark
//	contact_email: info@promomark.hr
//	children:
//	  - name: Kontakt
//	    slug: kontakt
//	    contact_form: true
//
// ResolveContactRecipient walks from a page towards the root and returns
// the first non-blank contact_email.
package content
