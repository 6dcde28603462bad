package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugHyphens  = regexp.MustCompile(`-+`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	isbnPattern  = regexp.MustCompile(`^(?:\d{10}|\d{13})$`)
)

// Slugify converts a human-readable name into a URL-safe identifier:
// lowercase, non-alphanumerics stripped, whitespace collapsed to single
// hyphens.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// BookSlug builds a book slug from a title. The millisecond timestamp
// suffix is appended unconditionally, not only on collision; the
// observable slugs depend on this, so it stays.
func BookSlug(title string) string {
	return fmt.Sprintf("%s-%d", Slugify(title), time.Now().UnixMilli())
}

// ValidSlug reports whether s contains only lowercase letters, digits and
// hyphens.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ValidISBN reports whether s is a 10 or 13 digit ISBN.
func ValidISBN(s string) bool {
	return isbnPattern.MatchString(s)
}
