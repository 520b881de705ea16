package blogservice

import (
	"regexp"
	"strings"
)

var nonSlugRX = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the public URL identifier from a title: lowercase,
// non-alphanumeric runs collapsed to single hyphens, no leading or trailing
// hyphen.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugRX.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
