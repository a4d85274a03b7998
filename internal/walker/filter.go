package walker

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are the exclusion patterns the default configuration
// starts from. The walker itself skips only what Options.Exclude names.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	"__pycache__",
	".venv",
	".DS_Store",
}

// MatchesAny checks relPath, and its base name, against doublestar
// patterns. Invalid patterns never match.
func MatchesAny(relPath string, patterns []string) bool {
	base := relPath
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		base = relPath[i+1:]
	}
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
