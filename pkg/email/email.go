// Package email derives human-readable display names from email addresses,
// for directory entries created from payroll files that omit the name column.
package email

import (
	"strings"
	"unicode"
)

// DeriveDisplayName builds a best-effort display name from the local part of
// an email address. "j.citizen@shop.example" becomes "J Citizen". Returns ""
// when nothing usable can be extracted.
func DeriveDisplayName(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return ""
	}

	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if isNumeric(part) {
			continue
		}
		words = append(words, capitalize(part))
	}
	return strings.Join(words, " ")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
