// internal/app/system/htmlsanitize/htmlsanitize.go
// Package htmlsanitize strips markup from free-text fields before they are
// stored.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute. The content of script and
// style elements is dropped entirely.
var strict = bluemonday.StrictPolicy()

// PlainText returns s with all HTML removed and surrounding whitespace
// trimmed. Text content is kept; special characters come back escaped.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strict.Sanitize(s))
}

// PlainTextPtr applies PlainText to an optional value. A value that is
// empty after sanitizing becomes nil.
func PlainTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := PlainText(*s)
	if v == "" {
		return nil
	}
	return &v
}
