package htmlsanitize_test

import (
	"testing"

	"github.com/ezzdayhq/ezzday/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Bins left on curb"); got != "Bins left on curb" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Blocked</strong> alley behind <em>123 Main</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	if got := htmlsanitize.Sanitize(input); got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"123 Test Street", "123 Test Street"},
		{"<b>123</b> Test Street", "123 Test Street"},
		{"depot<script>alert(1)</script>", "depot"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
