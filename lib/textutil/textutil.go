package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeCaption collapses a portal caption or module name down to a
// comparable key: lowercased, trimmed, all whitespace removed.
func NormalizeCaption(caption string) string {
	caption = strings.ToLower(caption)
	caption = strings.Trim(caption, " \n\t")
	caption = whitespaceRegex.ReplaceAllString(caption, "")
	return caption
}

// MatchCaption reports whether a caption matches any of the given
// matchers after normalization. Matchers are substring matches since
// portals decorate names inconsistently.
func MatchCaption(caption string, matchers []string) bool {
	caption = NormalizeCaption(caption)
	for _, m := range matchers {
		if strings.Contains(caption, NormalizeCaption(m)) {
			return true
		}
	}
	return false
}

// AfterMarker returns the text following the first occurrence of
// marker, trimmed. Portals bury the part we want inside sentences like
// "Fortnightly on Thursday, Next: 24 Jul 2025".
func AfterMarker(text, marker string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(text[idx+len(marker):]), true
}
