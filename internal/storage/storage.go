package storage

import (
	"context"
	"errors"
	"io"
)

// Errors adapters report for path resolution and missing objects.
var (
	ErrNotExist    = errors.New("storage: file does not exist")
	ErrInvalidPath = errors.New("storage: invalid path")
)

// Adapter performs physical file and directory operations under a single
// storage root. Paths are logical: slash-separated, relative to the root,
// already validated by the caller.
type Adapter interface {
	// Write stores the content at path, creating parent directories as
	// needed, and returns the number of bytes written.
	Write(ctx context.Context, path string, r io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Remove deletes a single file. Returns ErrNotExist when absent.
	Remove(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// MkdirAll creates a directory chain. Pre-existing directories are
	// not an error.
	MkdirAll(ctx context.Context, path string) error
	// RenameDir moves a directory and its contents. Returns ErrNotExist
	// when the source is absent.
	RenameDir(ctx context.Context, oldPath, newPath string) error
	// RemoveAll deletes a directory subtree. Absent subtrees are not an
	// error.
	RemoveAll(ctx context.Context, path string) error
}
