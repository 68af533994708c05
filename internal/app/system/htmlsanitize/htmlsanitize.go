// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize wraps bluemonday policies for the two cases the
// service needs: keeping harmless formatting in stored descriptions, and
// flattening operator free text to plain text before it enters an email
// body.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize removes dangerous HTML (scripts, event handlers, iframes) while
// preserving basic user-generated formatting.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// StripTags removes all HTML, leaving plain text.
func StripTags(s string) string {
	return strict.Sanitize(s)
}
