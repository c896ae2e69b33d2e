package email

import (
	"html"
	"regexp"
	"strings"
)

var (
	invisibleBlocks = regexp.MustCompile(`(?is)<(head|style|script)\b[^>]*>.*?</(head|style|script)>`)
	lineBreaks      = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|tr|h[1-6]|li)>`)
	tags            = regexp.MustCompile(`<[^>]*>`)
	blankLines      = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)
)

// StripHTML derives a plain-text rendering of an HTML body.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = invisibleBlocks.ReplaceAllString(s, "")
	s = lineBreaks.ReplaceAllString(s, "\n")
	s = tags.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
