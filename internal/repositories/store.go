package repositories

import (
	"context"
	"errors"

	"github.com/todoporunalma/formatos/internal/models"
)

// ErrNotFound is returned by Store lookups when no record matches.
var ErrNotFound = errors.New("repositories: record not found")

// Store owns File and Folder records and is the ground truth for the
// hierarchy. Identifiers are monotonic per record kind and never reused,
// even after deletes. Listings are ordered by creation time descending,
// ties broken by id descending.
type Store interface {
	CreateFile(ctx context.Context, file *models.File) (uint, error)
	GetFile(ctx context.Context, id uint) (*models.File, error)
	ListFilesAt(ctx context.Context, path string) ([]models.File, error)
	ListFilesByPrefix(ctx context.Context, prefix string) ([]models.File, error)
	DeleteFile(ctx context.Context, id uint) (bool, error)
	FileNameExistsAt(ctx context.Context, name, path string) (bool, error)

	CreateFolder(ctx context.Context, folder *models.Folder) (uint, error)
	GetFolder(ctx context.Context, id uint) (*models.Folder, error)
	ListFoldersAt(ctx context.Context, path string) ([]models.Folder, error)
	ListFoldersByPrefix(ctx context.Context, prefix string) ([]models.Folder, error)
	DeleteFolder(ctx context.Context, id uint) (bool, error)
	// FolderNameExistsAt probes for a (name, parent path) collision,
	// optionally excluding one identifier (0 excludes nothing).
	FolderNameExistsAt(ctx context.Context, name, path string, excludeID uint) (bool, error)
	FindFolderByNameAndPath(ctx context.Context, name, path string) (*models.Folder, error)
	UpdateFolderName(ctx context.Context, id uint, name string) error

	// UpdatePathsByPrefix rewrites the anchored prefix of every File and
	// Folder path that starts with oldPrefix. Files get their UpdatedAt
	// bumped; folder CreatedAt is untouched.
	UpdatePathsByPrefix(ctx context.Context, oldPrefix, newPrefix string) error
}
