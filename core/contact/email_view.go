package contact

import "github.com/promomark/website/core/email/templates"

const submittedAtLayout = "02.01.2006 15:04 MST"

func emailSubtitle(m EmailModel) string {
	subtitle := "Submitted " + m.SubmittedAt.Format(submittedAtLayout)
	if m.PageName != "" {
		subtitle += " from page “" + m.PageName + "”"
	}
	return subtitle
}

// Templates returns the email templates owned by the contact form.
func Templates() map[string]templates.Factory {
	return map[string]templates.Factory{
		TemplateContactForm: templates.Typed(EmailView),
	}
}
