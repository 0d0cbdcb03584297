package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordViolations(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{
			name:     "Acceptable",
			password: "Str0ng!Pass",
			want:     nil,
		},
		{
			name:     "TooShort",
			password: "S0m!e",
			want:     []string{PasswordRuleMinLength},
		},
		{
			name:     "TooLong",
			password: "Aa1!" + strings.Repeat("x", 72),
			want:     []string{PasswordRuleMaxLength},
		},
		{
			name:     "MissingUppercase",
			password: "weak1pass!",
			want:     []string{PasswordRuleUppercase},
		},
		{
			name:     "MissingLowercase",
			password: "WEAK1PASS!",
			want:     []string{PasswordRuleLowercase},
		},
		{
			name:     "MissingDigit",
			password: "WeakPass!",
			want:     []string{PasswordRuleDigit},
		},
		{
			name:     "MissingSpecial",
			password: "WeakPass1",
			want:     []string{PasswordRuleSpecial},
		},
		{
			name:     "EveryRuleReported",
			password: "",
			want: []string{
				PasswordRuleMinLength,
				PasswordRuleUppercase,
				PasswordRuleLowercase,
				PasswordRuleDigit,
				PasswordRuleSpecial,
			},
		},
		{
			name:     "AllLowercaseDigitsOnly",
			password: "abc12345",
			want:     []string{PasswordRuleUppercase, PasswordRuleSpecial},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PasswordViolations(tt.password))
		})
	}
}
