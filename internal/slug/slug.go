// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a lowercase letter, digit, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
	// separatorRuns collapses runs of whitespace, underscores, and hyphens into one hyphen.
	separatorRuns = regexp.MustCompile(`[\s_-]+`)

	// foldDiacritics decomposes accented characters and strips the combining
	// marks, so "Café" folds to "cafe" instead of losing the letter entirely.
	foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Café Central! 2026" → "cafe-central-2026"
func Generate(s string) string {
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	result := strings.ToLower(strings.TrimSpace(s))
	result = separatorRuns.ReplaceAllString(result, "-")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = separatorRuns.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
