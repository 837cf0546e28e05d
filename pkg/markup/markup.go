// Package markup converts chat text into Telegram HTML.
package markup

import (
	"html"
	"strings"
)

const boldDelimiter = "**"

// BoldToHTML replaces balanced **pairs** with <b> tags from left to right.
// An opener without a closing delimiter stops the scan and is left as is.
func BoldToHTML(text string) string {
	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, boldDelimiter)
		if start == -1 {
			break
		}
		end := strings.Index(rest[start+len(boldDelimiter):], boldDelimiter)
		if end == -1 {
			break
		}
		end += start + len(boldDelimiter)

		b.WriteString(rest[:start])
		b.WriteString("<b>")
		b.WriteString(rest[start+len(boldDelimiter) : end])
		b.WriteString("</b>")
		rest = rest[end+len(boldDelimiter):]
	}
	b.WriteString(rest)
	return b.String()
}

// Escape makes arbitrary text safe for Telegram's HTML parse mode.
func Escape(text string) string {
	return html.EscapeString(text)
}

// Rich escapes text and then applies the bold rule.
func Rich(text string) string {
	return BoldToHTML(Escape(text))
}
