package file

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameLength = 200

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	specialSymbols = regexp.MustCompile(`[^\p{L}\p{N}_\s.-]`)
	multiSpace     = regexp.MustCompile(`\s+`)
	unsafeToken    = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// SanitizeFilename rewrites a title into a filename that is safe on
// Windows/macOS/Linux. Single spaces are preserved; control characters,
// path separators and other special symbols are stripped.
func SanitizeFilename(name string) string {
	if name == "" {
		return "Untitled"
	}

	safe := invalidChars.ReplaceAllString(name, " ")
	safe = specialSymbols.ReplaceAllString(safe, " ")
	safe = multiSpace.ReplaceAllString(safe, " ")
	safe = strings.Trim(safe, " .")

	if safe == "" {
		return "Untitled"
	}
	if len(safe) > maxFilenameLength {
		cut := maxFilenameLength
		for cut > 0 && !utf8.RuneStart(safe[cut]) {
			cut--
		}
		safe = strings.TrimRight(safe[:cut], " .")
	}
	return safe
}

// SafeToken reduces an identifier to a storage-safe token. The result is
// stable for the same input across sessions.
func SafeToken(id string) string {
	return unsafeToken.ReplaceAllString(id, "_")
}
