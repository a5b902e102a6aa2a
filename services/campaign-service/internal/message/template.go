// Package message renders campaign texts and WhatsApp deep links.
package message

import (
	"net/url"
	"strconv"
	"strings"
)

// Fields are the values substituted into a campaign template.
type Fields struct {
	Nome     string
	Dias     int
	Link     string
	Desconto string
}

// Render does literal find/replace of the four placeholders. Unknown
// placeholders pass through untouched, so a typo in a template is visible
// in the preview instead of silently dropped.
func Render(template string, f Fields) string {
	r := strings.NewReplacer(
		"{nome}", f.Nome,
		"{dias}", strconv.Itoa(f.Dias),
		"{link}", f.Link,
		"{desconto}", f.Desconto,
	)
	return r.Replace(template)
}

// WALink builds a wa.me deep link: digits-only phone, url-encoded text.
func WALink(phone, text string) string {
	return "https://wa.me/" + digits(phone) + "?text=" + url.QueryEscape(text)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
