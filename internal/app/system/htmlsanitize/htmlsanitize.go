// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize strips dangerous markup from user-supplied HTML.
// Everything a user types that is later rendered as HTML (ticket
// descriptions, comments) passes through Sanitize.
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Table styling survives so pasted rich-text tables keep their layout.
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tr", "th", "td")
	return p
}

// Sanitize returns s with scripts, event handlers, and unsafe URL
// schemes removed. Common formatting tags and tables survive.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// SanitizeHTML is Sanitize typed for direct template interpolation.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(policy.Sanitize(s))
}
