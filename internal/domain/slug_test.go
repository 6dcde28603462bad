package domain

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Harry Potter", "harry-potter"},
		{"punctuation stripped", "Don't Panic!", "dont-panic"},
		{"collapsed whitespace", "The   Go    Programming   Language", "the-go-programming-language"},
		{"leading and trailing noise", "  ...Dune...  ", "dune"},
		{"already a slug", "clean-code", "clean-code"},
		{"unicode stripped", "Cien años de soledad", "cien-aos-de-soledad"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestProperty_SlugifyProducesValidSlugs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-empty output always passes ValidSlug", prop.ForAll(
		func(s string) bool {
			slug := Slugify(s)
			if slug == "" {
				return true
			}
			return ValidSlug(slug)
		},
		gen.AnyString(),
	))

	properties.Property("output is idempotent", prop.ForAll(
		func(s string) bool {
			slug := Slugify(s)
			return Slugify(slug) == slug
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestBookSlug(t *testing.T) {
	slug := BookSlug("The Pragmatic Programmer")

	if !strings.HasPrefix(slug, "the-pragmatic-programmer-") {
		t.Errorf("BookSlug missing title prefix: %q", slug)
	}
	if !ValidSlug(slug) {
		t.Errorf("BookSlug produced an invalid slug: %q", slug)
	}
	// The timestamp suffix makes consecutive slugs for the same title
	// distinct in practice; at minimum the suffix must be numeric.
	suffix := strings.TrimPrefix(slug, "the-pragmatic-programmer-")
	if suffix == "" {
		t.Error("BookSlug missing timestamp suffix")
	}
}

func TestValidISBN(t *testing.T) {
	valid := []string{"0306406152", "9780306406157"}
	invalid := []string{"", "123", "03064061521", "978-0306406157", "030640615X"}

	for _, s := range valid {
		if !ValidISBN(s) {
			t.Errorf("ValidISBN(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidISBN(s) {
			t.Errorf("ValidISBN(%q) = true, want false", s)
		}
	}
}
