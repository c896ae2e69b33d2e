package contact

import (
	"maps"
	"net/mail"
	"slices"
	"strings"
)

// Field names as posted by the form.
const (
	FieldName    = "Name"
	FieldEmail   = "Email"
	FieldMessage = "Message"
)

const (
	msgNameRequired     = "Name is required."
	msgEmailInvalid     = "A valid email is required."
	msgMessageRequired  = "Message is required."
	msgVerificationFail = "reCAPTCHA verification failed. Please try again."
)

// ValidationError collects every problem found in a submission.
// Fields maps a form field to its message; General holds messages not
// tied to a field, such as a failed verification.
type ValidationError struct {
	Fields  map[string]string
	General []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields)+len(e.General))
	parts = append(parts, e.General...)
	for _, name := range e.FieldNames() {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "contact form is invalid: " + strings.Join(parts, "; ")
}

// FieldNames returns the offending field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	return slices.Sorted(maps.Keys(e.Fields))
}

// Field returns the message for name, "" when the field is valid.
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

func (e *ValidationError) addField(name, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[name] = msg
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0 && len(e.General) == 0
}

// validate expects a trimmed submission.
func validate(s Submission, verified bool) *ValidationError {
	verr := &ValidationError{}
	if !verified {
		verr.General = append(verr.General, msgVerificationFail)
	}
	if s.Name == "" {
		verr.addField(FieldName, msgNameRequired)
	}
	if !ValidEmail(s.Email) {
		verr.addField(FieldEmail, msgEmailInvalid)
	}
	if s.Message == "" {
		verr.addField(FieldMessage, msgMessageRequired)
	}
	if verr.empty() {
		return nil
	}
	return verr
}

// ValidEmail reports whether s is a single bare RFC 5322 address usable as
// Reply-To. Display names, comments and angle brackets are rejected.
func ValidEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && at < len(s)-1
}
