// Package slugify derives URL-safe team slugs from titles.
//
// A slug is the folded (lowercase, diacritics stripped) title with every
// run of non-alphanumeric characters collapsed to a single hyphen. When a
// slug collides with an existing one, the caller retries with a short
// random suffix (WithSuffix). Slugs are generated once at team creation
// and are immutable afterwards.
package slugify

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
)

const maxSlugLen = 60

// Make converts a title into its base slug form.
func Make(title string) string {
	folded := text.Fold(title)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "team"
	}
	return slug
}

// WithSuffix returns the base slug with a short random suffix appended,
// for resolving collisions.
func WithSuffix(base string) string {
	return base + "-" + uuid.New().String()[:8]
}
