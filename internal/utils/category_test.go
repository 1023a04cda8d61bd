package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     Category
	}{
		{"informe.pdf", CategoryDocument},
		{"report.DOCX", CategoryDocument},
		{"photo.jpeg", CategoryImage},
		{"logo.SVG", CategoryImage},
		{"clip.mp4", CategoryVideo},
		{"song.flac", CategoryAudio},
		{"backup.7z", CategoryArchive},
		{"index.html", CategoryCode},
		{"data.json", CategoryCode},
		{"unknown.xyz", CategoryOther},
		{"noextension", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.filename))
		})
	}
}

func TestCategoryFolderName(t *testing.T) {
	assert.Equal(t, "Documentos", CategoryDocument.FolderName())
	assert.Equal(t, "Imágenes", CategoryImage.FolderName())
	assert.Equal(t, "Videos", CategoryVideo.FolderName())
	assert.Equal(t, "Audio", CategoryAudio.FolderName())
	assert.Equal(t, "Archivos", CategoryArchive.FolderName())
	assert.Equal(t, "Código", CategoryCode.FolderName())
	assert.Equal(t, "Otros", CategoryOther.FolderName())

	// Unknown categories fall back to the catch-all folder.
	assert.Equal(t, "Otros", Category("bogus").FolderName())
}

func TestDetectMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectMimeType("informe.pdf"))
	assert.Equal(t, "text/plain", DetectMimeType("notes.TXT"))
	assert.Equal(t, "application/zip", DetectMimeType("backup.zip"))
	assert.Equal(t, "application/octet-stream", DetectMimeType("unknown.xyz"))
	assert.Equal(t, "application/octet-stream", DetectMimeType("noextension"))
}

func TestIsAllowedFileType(t *testing.T) {
	allowed := []string{"informe.pdf", "photo.png", "notes.txt", "backup.zip"}
	for _, f := range allowed {
		assert.True(t, IsAllowedFileType(f), "%q should be allowed", f)
	}

	rejected := []string{
		"malware.exe", "script.bat", "run.cmd", "old.com",
		"saver.scr", "loader.pif", "macro.vbs", "payload.js",
		"blob.bin", "noextension",
	}
	for _, f := range rejected {
		assert.False(t, IsAllowedFileType(f), "%q should be rejected", f)
	}
}
