package models

import "time"

// File is a metadata record for stored bytes on disk. Path is the
// containing folder path: slash-joined, trailing-slash-terminated, empty
// for the root. The parent relationship is purely a string-prefix match,
// there is no folder foreign key.
type File struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index:idx_files_name_path,priority:1"`
	Path        string    `json:"path" gorm:"size:1000;not null;default:'';index:idx_files_name_path,priority:2"`
	Size        int64     `json:"size" gorm:"not null"` // bytes
	ContentType string    `json:"contentType" gorm:"size:100;not null"`
	Category    string    `json:"category" gorm:"size:50"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
