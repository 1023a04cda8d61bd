package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

// The stdlib mime table only covers a handful of web types and otherwise
// depends on OS mime.types files. Register the extensions this service
// cares about so detection behaves the same everywhere.
var registeredMimeTypes = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".zip":  "application/zip",
	".rar":  "application/vnd.rar",
	".7z":   "application/x-7z-compressed",
}

func init() {
	for ext, typ := range registeredMimeTypes {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// MIME types that are never accepted for upload.
var dangerousMimeTypes = map[string]bool{
	"application/x-executable":    true,
	"application/x-msdownload":    true,
	"application/x-msdos-program": true,
	"application/octet-stream":    true,
}

// Extensions that are never accepted for upload.
var dangerousExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true,
	".scr": true, ".pif": true, ".vbs": true, ".js": true,
}

// DetectMimeType resolves the MIME type of a filename from its extension,
// falling back to application/octet-stream.
func DetectMimeType(filename string) string {
	typ := typeByExtension(filename)
	if typ == "" {
		return "application/octet-stream"
	}
	return typ
}

// IsAllowedFileType reports whether a filename may be uploaded. Files with
// no resolvable MIME type, an executable MIME type, or a dangerous
// extension are rejected.
func IsAllowedFileType(filename string) bool {
	typ := typeByExtension(filename)
	if typ == "" || dangerousMimeTypes[typ] {
		return false
	}
	return !dangerousExtensions[strings.ToLower(filepath.Ext(filename))]
}

func typeByExtension(filename string) string {
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	// Strip parameters such as "; charset=utf-8".
	if i := strings.Index(typ, ";"); i >= 0 {
		typ = typ[:i]
	}
	return strings.TrimSpace(typ)
}
