package content

import (
	"regexp"
	"strings"
	"time"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify lowercases text and collapses every run of other characters into a dash.
func Slugify(text string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}

// ValidSlug reports whether s is safe to use as a directory or file name.
func ValidSlug(s string) bool {
	return validSlug.MatchString(s)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01",
}

// ParseDate accepts the ISO date forms used in front matter.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
