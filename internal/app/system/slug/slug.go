// Package slug derives URL-safe identifiers from display names.
//
// Groups and services carry a unique slug alongside their unique name so
// they can be addressed as /groups/slug/my-team. Slugs are derived, never
// user-supplied.
package slug

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
)

// Make folds name to lowercase ASCII and converts every run of
// non-alphanumeric characters to a single hyphen.
func Make(name string) string {
	folded := text.Fold(name)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// WithSuffix appends a short random fragment for collision recovery when
// two distinct names fold to the same slug.
func WithSuffix(s string) string {
	return s + "-" + uuid.New().String()[:8]
}
