package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid_simple", "user@example.com", true},
		{"valid_subdomain", "user@mail.example.com", true},
		{"valid_plus", "user+tag@example.com", true},
		{"valid_dash", "user-name@example.com", true},
		{"valid_dot", "user.name@example.com", true},
		{"valid_short_tld", "alice@x.com", true},
		{"invalid_no_at", "userexample.com", false},
		{"invalid_no_domain", "user@", false},
		{"invalid_no_user", "@example.com", false},
		{"invalid_double_at", "user@@example.com", false},
		{"invalid_spaces", "user @example.com", false},
		{"invalid_no_tld", "user@example", false},
		{"too_long", strings.Repeat("a", 250) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidEmail(tt.email)
			assert.Equal(t, tt.valid, result, "Email: %s", tt.email)
		})
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		uuid  string
		valid bool
	}{
		{"valid_uuid", "550e8400-e29b-41d4-a716-446655440000", true},
		{"valid_uppercase", "550E8400-E29B-41D4-A716-446655440000", true},
		{"invalid_short", "550e8400-e29b-41d4-a716", false},
		{"invalid_no_dashes", "550e8400e29b41d4a716446655440000", false},
		{"invalid_letters", "ggge8400-e29b-41d4-a716-446655440000", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidUUID(tt.uuid))
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"eight_chars", "pass1234", true},
		{"long", "correct horse battery staple", true},
		{"too_short", "short", false},
		{"too_long", strings.Repeat("x", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := IsValidPassword(tt.password)
			assert.Equal(t, tt.valid, valid)
			if !tt.valid {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal", "hello world", "hello world"},
		{"null_bytes", "hello\x00world", "helloworld"},
		{"keeps_newlines", "line1\nline2\ttabbed", "line1\nline2\ttabbed"},
		{"control_chars", "bell\x07char", "bellchar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeString(tt.input))
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Crash on save", "Crash on save"},
		{"trims", "  Crash on save  ", "Crash on save"},
		{"control_chars", "Crash\x00 on\x07 save", "Crash on save"},
		{"keeps_punctuation", "Don't crash & burn", "Don't crash & burn"},
		{"keeps_generics", "Crash in Map<String, Int> parser", "Crash in Map<String, Int> parser"},
		{"keeps_comparisons", "fails when a<b and c>d", "fails when a<b and c>d"},
		{"keeps_type_params", "NPE in List<Bug>.sort()", "NPE in List<Bug>.sort()"},
		{"keeps_markup", "<b>Steps</b> to reproduce", "<b>Steps</b> to reproduce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeText(tt.input))
		})
	}
}

func TestHasActiveContent(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		active bool
	}{
		{"plain", "Crash on save", false},
		{"generics", "Crash in Map<String, Int> parser", false},
		{"comparisons", "fails when a<b and c>d", false},
		{"type_params", "NPE in List<Bug>.sort()", false},
		{"formatting", "<b>Steps</b> to reproduce", false},
		{"prose_mentions_javascript", "javascript: undefined is not a function", false},
		{"script", "<script>alert(1)</script>Crash", true},
		{"script_upper", "<SCRIPT src=x></SCRIPT>", true},
		{"event_handler", `<img src="x" onerror="alert(1)">`, true},
		{"iframe", `<iframe src="https://evil.example"></iframe>`, true},
		{"js_link", `<a href="javascript:alert(1)">open</a>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, HasActiveContent(tt.input))
		})
	}
}

func TestTooLong(t *testing.T) {
	assert.True(t, TooLong("hello", 4))
	assert.False(t, TooLong("hello", 5))
	assert.False(t, TooLong("héllo", 5))
}
