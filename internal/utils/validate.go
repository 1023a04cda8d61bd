package utils

import "strings"

// Characters that are never allowed in names or paths.
const disallowedChars = "<>:\"|?*\x00"

// IsValidName reports whether a file or folder name is safe to store.
// Names are single path segments: no separators, no traversal sequences,
// no leading or trailing dot, at most 255 bytes.
func IsValidName(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	if strings.ContainsAny(name, disallowedChars) {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return true
}

// IsValidPath reports whether a slash-joined folder path is safe.
// The empty path denotes the root and is always valid. Unlike names,
// paths may contain '/' separators.
func IsValidPath(path string) bool {
	if path == "" {
		return true
	}
	if strings.Contains(path, "..") {
		return false
	}
	return !strings.ContainsAny(path, disallowedChars)
}
