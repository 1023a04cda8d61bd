package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FallbackFilename is used when sanitization leaves nothing usable.
const FallbackFilename = "archivo_sin_nombre"

var (
	strippedChars = regexp.MustCompile(`[<>:"|?*` + "\x00" + `]`)
	unsafeChars   = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	dotRuns       = regexp.MustCompile(`\.{2,}`)
)

// SanitizeFilename converts an arbitrary uploaded name into a safe stored
// name. It never fails and is idempotent: sanitizing an already-sanitized
// name returns it unchanged.
func SanitizeFilename(name string) string {
	if name == "" {
		return FallbackFilename
	}

	s := strippedChars.ReplaceAllString(name, "")
	s = unsafeChars.ReplaceAllString(s, "_")
	// Dot runs collapse so a stored name can never carry a traversal
	// sequence into a path.
	s = dotRuns.ReplaceAllString(s, ".")
	s = strings.Trim(s, ".")

	// Over-long names keep their extension and lose stem bytes.
	if len(s) > 255 {
		ext := filepath.Ext(s)
		if len(ext) > 254 {
			ext = ""
		}
		stem := strings.TrimSuffix(s, ext)
		stem = strings.TrimRight(stem[:255-len(ext)], ".")
		s = stem + ext
	}

	if s == "" {
		return FallbackFilename
	}
	return s
}
