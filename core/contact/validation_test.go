package contact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promomark/website/core/contact"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"ana@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"user+tag@example.com", true},
		{"o'brien@example.com", true},
		{"a!b@example.com", true},
		{"ana@münchen.de", true},
		{"ana@example", true},
		{"", false},
		{"ana", false},
		{"ana@", false},
		{"@example.com", false},
		{"Ana <ana@example.com>", false},
		{"<ana@example.com>", false},
		{"ana@example.com (Ana)", false},
		{"two@@example.com", false},
		{"ana@exa mple.com", false},
		{"ana@example.com, bob@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, contact.ValidEmail(tt.input))
		})
	}
}

func TestSubmission_Trimmed(t *testing.T) {
	t.Parallel()

	s := contact.Submission{Name: " Ana\t", Email: "\nana@example.com ", Message: "  Hi there  "}
	trimmed := s.Trimmed()

	assert.Equal(t, contact.Submission{Name: "Ana", Email: "ana@example.com", Message: "Hi there"}, trimmed)
	assert.Equal(t, trimmed, trimmed.Trimmed(), "trimming is idempotent")
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	verr := &contact.ValidationError{
		Fields:  map[string]string{contact.FieldName: "Name is required.", contact.FieldEmail: "A valid email is required."},
		General: []string{"reCAPTCHA verification failed. Please try again."},
	}

	assert.Equal(t, []string{contact.FieldEmail, contact.FieldName}, verr.FieldNames())
	assert.Equal(t, "Name is required.", verr.Field(contact.FieldName))
	assert.Empty(t, verr.Field(contact.FieldMessage))
	assert.Contains(t, verr.Error(), "reCAPTCHA verification failed")
	assert.Contains(t, verr.Error(), "Email: A valid email is required.")

	var nilErr *contact.ValidationError
	assert.Empty(t, nilErr.Field(contact.FieldName))
}
