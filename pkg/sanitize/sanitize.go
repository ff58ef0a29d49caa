// Package sanitize strips untrusted markup from user-submitted rich text.
// Descriptions and comments accept a small formatting subset; everything
// else, including all attributes, is removed.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var richText = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "strong", "em", "u",
		"ol", "ul", "li",
		"h1", "h2", "h3", "h4",
		"blockquote",
	)
	return p
}()

// RichText sanitizes HTML down to the allowed formatting elements.
func RichText(input string) string {
	return strings.TrimSpace(richText.Sanitize(input))
}
