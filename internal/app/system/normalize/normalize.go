// Package normalize contains small helpers that canonicalize user-supplied
// values before they are validated or stored. Keeping them in one place means
// every handler trims and lowercases the same way.
package normalize

import "strings"

// Email trims surrounding whitespace and lowercases the address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Priority trims and lowercases a ticket priority form value.
func Priority(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases a ticket status form value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// TeamID normalizes a team filter parameter. The sentinel value "all"
// (any case) means no filter and converts to the empty string.
func TeamID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
