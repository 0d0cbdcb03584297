package validator

import "unicode"

// Password policy rule identifiers, reported verbatim to clients so they can
// highlight the unmet requirements.
const (
	PasswordRuleMinLength = "min_length"
	PasswordRuleMaxLength = "max_length"
	PasswordRuleUppercase = "uppercase"
	PasswordRuleLowercase = "lowercase"
	PasswordRuleDigit     = "digit"
	PasswordRuleSpecial   = "special"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 72 // bcrypt input bound
)

// PasswordViolations checks pw against the password policy and returns every
// violated rule, not just the first. An empty slice means the password is
// acceptable.
func PasswordViolations(pw string) []string {
	var violated []string

	runes := []rune(pw)
	if len(runes) < passwordMinLen {
		violated = append(violated, PasswordRuleMinLength)
	}
	if len(pw) > passwordMaxLen {
		violated = append(violated, PasswordRuleMaxLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		violated = append(violated, PasswordRuleUppercase)
	}
	if !hasLower {
		violated = append(violated, PasswordRuleLowercase)
	}
	if !hasDigit {
		violated = append(violated, PasswordRuleDigit)
	}
	if !hasSpecial {
		violated = append(violated, PasswordRuleSpecial)
	}

	return violated
}
