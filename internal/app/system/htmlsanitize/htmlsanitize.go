// Package htmlsanitize strips dangerous markup from user-supplied HTML.
//
// Group content pages and service descriptions accept rich text from
// editors; everything passes through a bluemonday UGC policy before it is
// stored so script injection never reaches other members' browsers.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with unsafe HTML removed. Safe formatting tags
// (p, strong, em, lists, links with safe schemes) are preserved.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// StripAll removes every tag, returning plain text. Used for fields that
// must never contain markup (names, tags, titles).
var strict = bluemonday.StrictPolicy()

func StripAll(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}
