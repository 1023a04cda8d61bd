package models

import "github.com/todoporunalma/formatos/internal/utils"

// FileInfo is the wire representation of a File. Timestamps use the fixed
// second-precision UTC layout.
type FileInfo struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Category    string `json:"category"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// FolderInfo is the wire representation of a Folder.
type FolderInfo struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	CreatedAt string `json:"createdAt"`
}

func NewFileInfo(f File) FileInfo {
	return FileInfo{
		ID:          f.ID,
		Name:        f.Name,
		Path:        f.Path,
		Size:        f.Size,
		ContentType: f.ContentType,
		Category:    f.Category,
		CreatedAt:   utils.FormatTime(f.CreatedAt),
		UpdatedAt:   utils.FormatTime(f.UpdatedAt),
	}
}

func NewFolderInfo(f Folder) FolderInfo {
	return FolderInfo{
		ID:        f.ID,
		Name:      f.Name,
		Path:      f.Path,
		CreatedAt: utils.FormatTime(f.CreatedAt),
	}
}

// NewFileInfos always returns a non-nil slice so listings serialize as [].
func NewFileInfos(files []File) []FileInfo {
	out := make([]FileInfo, 0, len(files))
	for _, f := range files {
		out = append(out, NewFileInfo(f))
	}
	return out
}

func NewFolderInfos(folders []Folder) []FolderInfo {
	out := make([]FolderInfo, 0, len(folders))
	for _, f := range folders {
		out = append(out, NewFolderInfo(f))
	}
	return out
}

// CreateFolderRequest is the body of POST /folders/create.
type CreateFolderRequest struct {
	Name       string `json:"name"`
	ParentPath string `json:"parentPath"`
}

// RenameFolderRequest is the body of PUT /folders/rename.
type RenameFolderRequest struct {
	OldName    string `json:"oldName"`
	NewName    string `json:"newName"`
	ParentPath string `json:"parentPath"`
}
