package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files as nested directories under a single root, mirroring
// the logical path strings exactly.
type Local struct {
	root string
}

// NewLocal creates the storage root if missing and returns the adapter.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Local{root: abs}, nil
}

// resolve maps a logical path onto the filesystem, refusing anything that
// would escape the root.
func (l *Local) resolve(path string) (string, error) {
	if strings.Contains(path, "..") || strings.ContainsRune(path, 0) {
		return "", ErrInvalidPath
	}
	rel := filepath.FromSlash(strings.Trim(path, "/"))
	full := filepath.Join(l.root, rel)
	if full != l.root && !strings.HasPrefix(full, l.root+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

func (l *Local) Write(_ context.Context, path string, r io.Reader) (int64, error) {
	full, err := l.resolve(path)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, err
	}
	dst, err := os.Create(full)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (l *Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, ErrNotExist
	}
	return f, err
}

func (l *Local) Remove(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if os.IsNotExist(err) {
		return ErrNotExist
	}
	return err
}

func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *Local) MkdirAll(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, 0o755)
}

func (l *Local) RenameDir(_ context.Context, oldPath, newPath string) error {
	oldFull, err := l.resolve(oldPath)
	if err != nil {
		return err
	}
	newFull, err := l.resolve(newPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(oldFull); os.IsNotExist(err) {
		return ErrNotExist
	}
	return os.Rename(oldFull, newFull)
}

func (l *Local) RemoveAll(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if full == l.root {
		return ErrInvalidPath
	}
	return os.RemoveAll(full)
}
