package models

import "time"

// Folder is a metadata record for a directory. Path is the parent folder
// path, encoded like File.Path. Folders carry no UpdatedAt: they are not
// content-mutable, only renamable.
type Folder struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index:idx_folders_name_path,priority:1"`
	Path      string    `json:"path" gorm:"size:1000;not null;default:'';index:idx_folders_name_path,priority:2"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullPath returns the path of the folder's own contents, i.e. the prefix
// every descendant record's Path starts with.
func (f Folder) FullPath() string {
	return f.Path + f.Name + "/"
}
