package validation

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128

	MaxUsernameLength    = 64
	MaxTeamNameLength    = 100
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
)

var (
	// EmailRegex validates email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// UUIDRegex validates UUID format
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// activeContent matches markup that executes in a browser.
	activeContent = regexp.MustCompile(`(?i)<\s*/?\s*(script|iframe|object|embed|style|svg|link|meta)\b|\son[a-z]+\s*=|javascript:`)

	// ugcPolicy keeps formatting markup and drops anything executable.
	ugcPolicy = bluemonday.UGCPolicy()
)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidUUID checks if the string is a valid UUID format
func IsValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// IsValidPassword checks password length. Composition rules are left to the user.
func IsValidPassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > MaxPasswordLength {
		return false, "Password must be at most 128 characters"
	}
	return true, ""
}

// SanitizeString removes potentially dangerous characters for display
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Remove control characters except newlines and tabs
	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SanitizeText strips control characters and surrounding whitespace from
// free text such as bug titles. Angle brackets are kept as typed.
func SanitizeText(s string) string {
	return strings.TrimSpace(SanitizeString(s))
}

// HasActiveContent reports whether s carries markup that the UGC policy
// would remove, such as script elements or event handler attributes.
// Text that only looks like markup, e.g. "Map<String, Int>", passes.
func HasActiveContent(s string) bool {
	if !activeContent.MatchString(s) {
		return false
	}
	return html.UnescapeString(ugcPolicy.Sanitize(s)) != s
}

// TooLong reports whether s has more than max characters.
func TooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}
