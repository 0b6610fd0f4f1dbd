package utils

import (
	"regexp"
	"strings"
)

// Characters invalid in filenames on most filesystems
var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename removes characters that are invalid in a path segment
// and trims surrounding whitespace. The result is not truncated and two
// different titles may sanitize to the same name.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	return strings.TrimSpace(filename)
}

// HasInvalidFilenameChars reports whether s contains a character SanitizeFilename removes.
func HasInvalidFilenameChars(s string) bool {
	return invalidFilenameChars.MatchString(s)
}
