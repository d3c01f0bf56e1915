package posts

import (
	"testing"
)

func TestReconcilePlatformPostID(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		sourceURL string
		expected  string
	}{
		{
			name:      "canonical shortcode returned unchanged",
			id:        "ABC123",
			sourceURL: "https://www.instagram.com/p/ABC123/",
			expected:  "ABC123",
		},
		{
			name:      "legacy composite id resolves via source URL",
			id:        "123456_789",
			sourceURL: "https://www.instagram.com/p/ABC123/",
			expected:  "ABC123",
		},
		{
			name:      "legacy composite id with reel URL",
			id:        "3142857193_50823",
			sourceURL: "https://www.instagram.com/reel/C4xYz_9/",
			expected:  "C4xYz_9",
		},
		{
			name:      "legacy composite id without usable URL stays as-is",
			id:        "123456_789",
			sourceURL: "https://www.instagram.com/someprofile/",
			expected:  "123456_789",
		},
		{
			name:      "legacy composite id with empty URL stays as-is",
			id:        "123456_789",
			sourceURL: "",
			expected:  "123456_789",
		},
		{
			name:      "overlong id falls back to URL extraction",
			id:        "12345678901234567890123",
			sourceURL: "https://www.instagram.com/tv/XyZ987/",
			expected:  "XyZ987",
		},
		{
			name:      "shortcode with underscore and dash is canonical",
			id:        "Ab_c-12",
			sourceURL: "",
			expected:  "Ab_c-12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ReconcilePlatformPostID(tt.id, tt.sourceURL)
			if result != tt.expected {
				t.Errorf("ReconcilePlatformPostID(%q, %q) = %q, want %q",
					tt.id, tt.sourceURL, result, tt.expected)
			}
		})
	}
}

func TestExtractShortcodeFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"post URL", "https://www.instagram.com/p/ABC123/", "ABC123"},
		{"reel URL", "https://www.instagram.com/reel/DeF456/?igsh=x", "DeF456"},
		{"tv URL", "https://instagram.com/tv/GhI789", "GhI789"},
		{"profile URL has no shortcode", "https://www.instagram.com/someprofile/", ""},
		{"empty URL", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractShortcodeFromURL(tt.url); got != tt.expected {
				t.Errorf("ExtractShortcodeFromURL(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestIsLegacyCompositeID(t *testing.T) {
	if !IsLegacyCompositeID("123456_789") {
		t.Error("expected 123456_789 to be a legacy composite ID")
	}
	if IsLegacyCompositeID("ABC123") {
		t.Error("expected ABC123 not to be a legacy composite ID")
	}
	if IsLegacyCompositeID("12_34_56") {
		t.Error("expected 12_34_56 not to match the composite pattern")
	}
}
