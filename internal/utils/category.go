package utils

import (
	"path/filepath"
	"strings"
)

// Category is a coarse classification of a file derived from its extension,
// used to auto-route uploads into a matching folder.
type Category string

const (
	CategoryDocument Category = "document"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryArchive  Category = "archive"
	CategoryCode     Category = "code"
	CategoryOther    Category = "other"
)

var categoryByExtension = map[string]Category{
	"pdf": CategoryDocument, "doc": CategoryDocument, "docx": CategoryDocument,
	"xls": CategoryDocument, "xlsx": CategoryDocument, "ppt": CategoryDocument,
	"pptx": CategoryDocument, "txt": CategoryDocument,

	"jpg": CategoryImage, "jpeg": CategoryImage, "png": CategoryImage,
	"gif": CategoryImage, "svg": CategoryImage, "webp": CategoryImage,

	"mp4": CategoryVideo, "avi": CategoryVideo, "mov": CategoryVideo, "wmv": CategoryVideo,

	"mp3": CategoryAudio, "wav": CategoryAudio, "flac": CategoryAudio,

	"zip": CategoryArchive, "rar": CategoryArchive, "7z": CategoryArchive,

	"js": CategoryCode, "html": CategoryCode, "css": CategoryCode, "json": CategoryCode,
}

var categoryFolderNames = map[Category]string{
	CategoryDocument: "Documentos",
	CategoryImage:    "Imágenes",
	CategoryVideo:    "Videos",
	CategoryAudio:    "Audio",
	CategoryArchive:  "Archivos",
	CategoryCode:     "Código",
	CategoryOther:    "Otros",
}

// Classify maps a filename to its category by extension. Unknown or missing
// extensions classify as CategoryOther.
func Classify(filename string) Category {
	if filename == "" {
		return CategoryOther
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if c, ok := categoryByExtension[ext]; ok {
		return c
	}
	return CategoryOther
}

// FolderName returns the fixed display folder for the category.
func (c Category) FolderName() string {
	if name, ok := categoryFolderNames[c]; ok {
		return name
	}
	return categoryFolderNames[CategoryOther]
}
