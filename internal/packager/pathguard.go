package packager

import (
	"strings"
)

// =============================================================================
// PATH GUARD
// =============================================================================

// ReservedTemplatePrefix is the path prefix used for the plugin's own template
// sources. Generated projects may not write under it.
const ReservedTemplatePrefix = "templates/"

// SanitizePath validates and normalizes a candidate relative path from model
// output. It returns the canonical path and true, or "" and false if the path
// is rejected.
//
// Model output is untrusted text; this is the sole security boundary against
// path traversal and template-source overwrite.
func SanitizePath(raw string) (string, bool) {
	// Canonical separator and surrounding whitespace.
	p := strings.TrimSpace(strings.ReplaceAll(raw, `\`, "/"))

	// Drop one leading current-directory prefix. Emptiness is checked after
	// the strip so "./" cannot slip through as an empty path.
	p = strings.TrimPrefix(p, "./")
	if p == "" || p == "." {
		return "", false
	}

	// No absolute paths. Windows drive and UNC forms arrive with their
	// backslashes already converted above.
	if strings.HasPrefix(p, "/") || hasDrivePrefix(p) {
		return "", false
	}

	// The artifact must not smuggle in replacement template sources.
	if p == strings.TrimSuffix(ReservedTemplatePrefix, "/") || strings.HasPrefix(p, ReservedTemplatePrefix) {
		return "", false
	}

	// No parent-directory traversal in any component.
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", false
		}
	}

	return p, true
}

// hasDrivePrefix reports whether p starts with a Windows drive letter, e.g.
// "C:/Windows".
func hasDrivePrefix(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
