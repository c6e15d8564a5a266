// internal/app/system/normalize/normalize.go
// Package normalize cleans up user-entered values before they are
// validated or stored.
package normalize

import "strings"

// Username trims surrounding whitespace. Case is preserved for display;
// lookups use the folded copy stored alongside it.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Name trims a display name and collapses internal runs of whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Optional returns nil for a blank value and a pointer to the trimmed value
// otherwise. Used for nullable text such as a user's remark.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Role lowercases a role name for authorization checks.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
