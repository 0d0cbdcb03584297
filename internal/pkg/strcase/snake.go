package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts CamelCase or mixedCase identifiers to
// snake_case. Runs of capitals are treated as initialisms, so
// "HTTPServer" becomes "http_server" and "userID" becomes "user_id".
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s))

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			// break before an upper that follows lower/digit, or at
			// the tail of an initialism followed by a lowercase word
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				b.WriteRune('_')
			case unicode.IsUpper(prev) && next != 0 && unicode.IsLower(next):
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
