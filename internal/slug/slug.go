// Package slug derives URL-safe identifiers from titles and keeps them unique.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxLength is the longest base slug, suffix excluded
	MaxLength = 80
	// MaxSuffix is the highest numeric suffix tried before giving up
	MaxSuffix = 25

	fallback = "resource"
)

// ErrExhausted is returned when every candidate up to MaxSuffix is taken
var ErrExhausted = errors.New("slug candidates exhausted")

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title, folds diacritics, collapses every run of characters
// outside [a-z0-9] into one hyphen and trims hyphens from both ends.
// Apostrophe-like modifier letters (ʾ ʿ) are dropped so "Qurʾān" becomes "quran".
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(title))) {
		if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Lm, r) {
			continue
		}
		b.WriteRune(r)
	}

	s := reNonAlnum.ReplaceAllString(b.String(), "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLength {
		s = strings.Trim(s[:MaxLength], "-")
	}
	if s == "" {
		return fallback
	}
	return s
}

// ExistsFunc reports whether a slug is already taken
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Generator produces slugs that are unique according to its ExistsFunc
type Generator struct {
	exists ExistsFunc
}

// NewGenerator creates a generator that checks candidates with exists
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists}
}

// Unique returns the slug of title, or the first free "<slug>-N" for N in 1..MaxSuffix.
// Each candidate is checked once; ErrExhausted is returned when all are taken.
func (g *Generator) Unique(ctx context.Context, title string) (string, error) {
	base := Slugify(title)

	for i := 0; i <= MaxSuffix; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}

		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrExhausted, base)
}
