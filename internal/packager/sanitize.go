package packager

import (
	"regexp"
	"strings"
)

// =============================================================================
// CONTENT SANITIZER
// =============================================================================

var (
	// fullFenceRe matches content that is, in its entirety, a single fenced
	// block: an opening line of three or more backticks with an optional
	// language tag, the inner content, and a closing fence line.
	fullFenceRe = regexp.MustCompile("(?s)^\\s*`{3,}[a-zA-Z0-9_+.-]*[ \t]*\r?\n(.*)\r?\n[ \t]*`{3,}\\s*$")

	// leadingMarkerRe matches a leading "### FILE: ..." header line that the
	// model repeated inside a file body.
	leadingMarkerRe = regexp.MustCompile(`^\s*###\s*FILE:.*(?:\r?\n|$)`)
)

// docLikeSuffixes are path suffixes treated as prose/markup, where fences are
// meaningful content and must not be stripped.
var docLikeSuffixes = []string{".md", ".markdown", ".rst"}

// isDocLike reports whether the path should keep its fences, by suffix only,
// case-insensitive.
func isDocLike(p string) bool {
	lower := strings.ToLower(p)
	for _, suffix := range docLikeSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// stripBOM removes a single leading UTF-8 byte-order mark.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// normalizeNewlines converts all line-ending variants to "\n".
func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// unwrapFullFence returns the inner text and true if the entire string is one
// single fenced block; otherwise it returns the input unchanged and false.
func unwrapFullFence(s string) (string, bool) {
	m := fullFenceRe.FindStringSubmatch(s)
	if m == nil {
		return s, false
	}
	return m[1], true
}

// SanitizeContent normalizes extracted or rendered file content.
//
// Always: strip one leading BOM, normalize newlines to "\n", and guarantee a
// trailing newline on non-empty content. For non-documentation paths it
// additionally removes accidental leading "### FILE:" marker lines and
// unwraps full-content fences. The marker/fence cleanup runs to a fixed
// point, which makes the whole function idempotent even for double-wrapped
// model output.
func SanitizeContent(path, content string) string {
	out := normalizeNewlines(stripBOM(content))

	if !isDocLike(path) {
		for {
			next := leadingMarkerRe.ReplaceAllString(out, "")
			if inner, ok := unwrapFullFence(next); ok {
				next = inner
			}
			if next == out {
				break
			}
			out = next
		}
	}

	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
