package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

// Normalize folds Arabic text so that spelling variants compare equal:
// diacritics and tatweel are removed, alef and ya variants are unified,
// punctuation becomes whitespace and whitespace is collapsed.
func Normalize(value string) string {
	if value == "" {
		return ""
	}
	lowered := cases.Lower(language.Und).String(norm.NFC.String(value))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case isDiacritic(r), r == tatweel:
			continue
		case r == 'أ', r == 'إ', r == 'آ':
			b.WriteRune('ا')
		case r == 'ى':
			b.WriteRune('ي')
		case unicode.IsLetter(r), unicode.IsNumber(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isDiacritic(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670 || (r >= 0x06D6 && r <= 0x06ED)
}
