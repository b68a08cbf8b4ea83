package domain

import "strings"

// DeanQualifier is the role token marking a clergy member as dean of the
// deanery named by their deaneryId.
const DeanQualifier = "Dean"

func roleTokens(role string) []string {
	parts := strings.Split(role, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// HasDeanQualifier reports whether role carries the Dean token. Tokens are
// comma separated and compared case-insensitively.
func HasDeanQualifier(role string) bool {
	for _, tok := range roleTokens(role) {
		if strings.EqualFold(tok, DeanQualifier) {
			return true
		}
	}
	return false
}

// WithDeanQualifier appends the Dean token unless it is already present.
func WithDeanQualifier(role string) string {
	if HasDeanQualifier(role) {
		return role
	}
	return strings.Join(append(roleTokens(role), DeanQualifier), ", ")
}

// WithoutDeanQualifier strips every Dean token and normalises separators.
func WithoutDeanQualifier(role string) string {
	if !HasDeanQualifier(role) {
		return role
	}
	kept := make([]string, 0)
	for _, tok := range roleTokens(role) {
		if !strings.EqualFold(tok, DeanQualifier) {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, ", ")
}
