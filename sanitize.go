package legcosearch

import (
	"strings"
	"unicode"
)

// SafeLiteral is a free-text value that has passed Sanitize and may be
// embedded into an OData string literal. Raw caller strings never reach
// clause construction directly; this type is the injection boundary.
type SafeLiteral string

// maxLiteralLen bounds sanitized literals, matching the upstream query
// length limits.
const maxLiteralLen = 500

// extraLiteralRunes are the punctuation runes kept by Sanitize in addition
// to letters, digits and whitespace.
const extraLiteralRunes = "-.,()[]'"

// Sanitize converts arbitrary free text into an injection-safe OData string
// literal. It strips every rune that is not a letter, digit, whitespace or
// one of - . , ( ) [ ] ', doubles single quotes per the OData escaping
// convention, and truncates the result to 500 runes. Sanitize is applied to
// keyword and name parameters only; dates, enums and integers are strictly
// validated instead and embedded unescaped.
func Sanitize(s string) SafeLiteral {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			strings.ContainsRune(extraLiteralRunes, r) {
			b.WriteRune(r)
		}
	}

	out := strings.ReplaceAll(b.String(), "'", "''")
	if runes := []rune(out); len(runes) > maxLiteralLen {
		out = string(runes[:maxLiteralLen])
	}
	return SafeLiteral(out)
}
