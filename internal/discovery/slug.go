// Package discovery guesses and probes candidate websites for a company.
package discovery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes are trailing legal-form words dropped before slugifying.
var legalSuffixes = map[string]bool{
	"plc": true, "llc": true, "llp": true, "ltd": true, "limited": true,
	"inc": true, "incorporated": true, "corp": true, "corporation": true,
	"group": true, "holdings": true,
	"gmbh": true, "sa": true, "ag": true,
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify reduces a company name to the token used for domain guessing:
// lowercase, legal suffixes stripped, diacritics folded, non-alphanumerics
// dropped. "Café Brünn Ltd" becomes "cafebrunn".
func Slugify(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, w := range splitWords(folded) {
		b.WriteString(w)
	}
	return b.String()
}

// SlugifyHyphenated is Slugify with hyphens between the name's words, for
// the "acme-widgets.com" candidate shape. Single-word names produce the
// same slug as Slugify.
func SlugifyHyphenated(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}
	return strings.Join(splitWords(folded), "-")
}

func splitWords(name string) []string {
	fields := strings.Fields(strings.ToLower(name))

	// Trim trailing legal-form words ("Acme Widgets Ltd", "Acme Holdings plc").
	for len(fields) > 1 {
		last := strings.Trim(fields[len(fields)-1], ".,()")
		if !legalSuffixes[last] {
			break
		}
		fields = fields[:len(fields)-1]
	}

	var words []string
	for _, f := range fields {
		var b strings.Builder
		for _, r := range f {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			words = append(words, b.String())
		}
	}
	return words
}
