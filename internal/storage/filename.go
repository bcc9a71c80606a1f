package storage

import (
	"regexp"
	"strings"
)

const maxFilenameLength = 100

var (
	illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
	underscoreRun        = regexp.MustCompile(`_{2,}`)
)

// SafeFilename turns an arbitrary page title into a name that is legal on
// common filesystems: illegal characters stripped, leading and trailing dots
// and whitespace trimmed, whitespace runs collapsed to single underscores,
// repeated underscores collapsed, truncated to 100 runes. An empty result
// becomes "Untitled". The mapping is pure, so the same title always resolves
// to the same file.
func SafeFilename(title string) string {
	name := illegalFilenameChars.ReplaceAllString(title, "")
	name = strings.Trim(name, ". ")
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = underscoreRun.ReplaceAllString(name, "_")
	if runes := []rune(name); len(runes) > maxFilenameLength {
		name = string(runes[:maxFilenameLength])
	}
	if name == "" {
		return "Untitled"
	}
	return name
}
