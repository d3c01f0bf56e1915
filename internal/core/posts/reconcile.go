package posts

import (
	"regexp"
)

// Instagram post identifiers have existed in two incompatible forms: the
// short alphanumeric shortcode seen in public URLs (current canonical form)
// and a legacy composite numeric form like "3142857193_50823". Both forms
// may be present in the store for logically the same post, so writes
// canonicalize to the shortcode and lookups fall back to the other form.

// legacyCompositeIDPattern matches the legacy "<digits>_<digits>" post ID format
var legacyCompositeIDPattern = regexp.MustCompile(`^\d+_\d+$`)

// shortcodeURLPattern extracts the shortcode from an Instagram post URL,
// e.g. https://www.instagram.com/p/ABC123/ or /reel/ABC123/ or /tv/ABC123/
var shortcodeURLPattern = regexp.MustCompile(`/(?:p|reel|tv)/([A-Za-z0-9_-]+)`)

// maxShortcodeLength is the longest ID we still treat as an already-canonical
// shortcode. Shortcodes are ~11 characters; anything at or past this length
// is some other identifier generation.
const maxShortcodeLength = 20

// ReconcilePlatformPostID resolves an Instagram post identifier to its
// canonical shortcode form.
//
// If id is not in the legacy composite format and is shorter than
// maxShortcodeLength it is already canonical and returned unchanged.
// Otherwise the shortcode is extracted from sourceURL when possible.
// This step is best-effort and never fails: when no shortcode can be
// recovered the original id is returned.
//
// TikTok IDs are canonical everywhere and must not be passed through this.
func ReconcilePlatformPostID(id, sourceURL string) string {
	if !legacyCompositeIDPattern.MatchString(id) && len(id) < maxShortcodeLength {
		return id
	}

	if matches := shortcodeURLPattern.FindStringSubmatch(sourceURL); matches != nil {
		return matches[1]
	}

	return id
}

// ExtractShortcodeFromURL returns the shortcode embedded in an Instagram
// post URL, or "" when the URL doesn't contain one.
func ExtractShortcodeFromURL(sourceURL string) string {
	if matches := shortcodeURLPattern.FindStringSubmatch(sourceURL); matches != nil {
		return matches[1]
	}
	return ""
}

// IsLegacyCompositeID reports whether id uses the legacy
// "<digits>_<digits>" Instagram post ID format.
func IsLegacyCompositeID(id string) bool {
	return legacyCompositeIDPattern.MatchString(id)
}
