package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// NormalizeEmail lowercases and trims an address so lookups and the
// duplicate check behave the same regardless of input casing.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Email is a deliberately shallow shape check. Deliverability is the
// mail server's problem, not ours.
func Email(value string) bool {
	value = strings.TrimSpace(value)
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return false
	}
	return !strings.ContainsAny(value, " \t\n")
}
