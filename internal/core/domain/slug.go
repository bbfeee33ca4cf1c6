package domain

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FallbackSlug is used when neither the slug hint nor the title yield any
// URL-safe characters.
const FallbackSlug = "document"

// ToSlug converts arbitrary text into a URL-safe key.
//
// The input is NFKD-decomposed, every run of characters outside [A-Za-z0-9]
// collapses to a single hyphen, leading and trailing hyphens are dropped and
// the result is lower-cased. Combining marks left by decomposition count as
// separators, so "Crá zy" becomes "cra-zy".
func ToSlug(input string) string {
	decomposed := norm.NFKD.String(input)

	var b strings.Builder
	b.Grow(len(decomposed))
	pending := false
	for _, r := range decomposed {
		if isASCIIAlnum(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// SlugCandidate returns the n-th probe for base: base itself, then base-2, base-3...
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// BaseSlug picks the base candidate for a new document.
func BaseSlug(hint, title string) string {
	if strings.TrimSpace(hint) != "" {
		if s := ToSlug(hint); s != "" {
			return s
		}
	}
	if s := ToSlug(title); s != "" {
		return s
	}
	return FallbackSlug
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
