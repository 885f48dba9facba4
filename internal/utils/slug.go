package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify gera o identificador de URL de uma notícia:
// minúsculas, sem acentos, sequências de outros caracteres viram "-".
func Slugify(title string) string {
	s := strings.ToLower(title)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
