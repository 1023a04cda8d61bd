package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/todoporunalma/formatos/internal/models"
	"github.com/todoporunalma/formatos/internal/repositories"
	"github.com/todoporunalma/formatos/internal/storage"
	"github.com/todoporunalma/formatos/internal/utils"
)

// Engine keeps the metadata store and the physical storage in lockstep
// across create, rename, and recursive-delete operations. It holds no
// persisted state of its own; correctness rests on operation ordering plus
// a single mutex serializing structural mutations. Read-only operations
// (List, Download) do not take the lock.
type Engine struct {
	store repositories.Store
	disk  storage.Adapter

	// mu serializes structural mutations: upload's probe+write+commit,
	// folder create, rename's locate+check+cascade, and recursive delete.
	mu sync.Mutex
}

func NewEngine(store repositories.Store, disk storage.Adapter) *Engine {
	return &Engine{store: store, disk: disk}
}

// ListResult carries one directory listing, most recent entries first.
type ListResult struct {
	Files   []models.File
	Folders []models.Folder
	Path    string
}

// DeleteFileResult reports a file deletion. The metadata record is always
// removed; PhysicalDeleted is false when the bytes on disk were already
// gone or could not be removed, with Warning explaining why.
type DeleteFileResult struct {
	ID              uint
	PhysicalDeleted bool
	Warning         string
}

// RenameResult echoes a completed folder rename.
type RenameResult struct {
	OldName    string
	NewName    string
	ParentPath string
}

// Upload stores the content under the category folder matching the
// original filename's extension. The physical write happens first; if the
// metadata commit then fails, the written bytes are removed best-effort so
// no orphaned record can exist.
func (e *Engine) Upload(ctx context.Context, originalName string, content []byte) (*models.File, error) {
	if !utils.IsAllowedFileType(originalName) {
		return nil, fmt.Errorf("%w: file type not allowed", ErrInvalidInput)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	category := utils.Classify(originalName)
	folderName, err := e.ensureCategoryFolder(ctx, category)
	if err != nil {
		return nil, err
	}
	destPath := folderName + "/"

	name, err := e.uniqueFilename(ctx, destPath, utils.SanitizeFilename(originalName))
	if err != nil {
		return nil, err
	}

	if _, err := e.disk.Write(ctx, destPath+name, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("%w: writing %q: %v", ErrStorage, destPath+name, err)
	}

	now := utils.NowUTC()
	file := &models.File{
		Name:        name,
		Path:        destPath,
		Size:        int64(len(content)),
		ContentType: utils.DetectMimeType(name),
		Category:    string(category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := e.store.CreateFile(ctx, file); err != nil {
		// Undo the physical write so the store stays authoritative.
		if rmErr := e.disk.Remove(ctx, destPath+name); rmErr != nil && !errors.Is(rmErr, storage.ErrNotExist) {
			log.Printf("upload: orphaned physical file %q after failed commit: %v", destPath+name, rmErr)
		}
		return nil, fmt.Errorf("%w: committing metadata for %q: %v", ErrStorage, name, err)
	}
	return file, nil
}

// List returns the files and folders directly at path. Unknown paths list
// as empty, never as an error.
func (e *Engine) List(ctx context.Context, path string) (*ListResult, error) {
	if !utils.IsValidPath(path) {
		return nil, fmt.Errorf("%w: unsafe path %q", ErrInvalidInput, path)
	}
	path = normalizePath(path)

	files, err := e.store.ListFilesAt(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: listing files at %q: %v", ErrStorage, path, err)
	}
	folders, err := e.store.ListFoldersAt(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: listing folders at %q: %v", ErrStorage, path, err)
	}
	return &ListResult{Files: files, Folders: folders, Path: path}, nil
}

// Download resolves a file record and opens its physical bytes. A missing
// record and a missing physical file both surface as ErrNotFound.
func (e *Engine) Download(ctx context.Context, id uint) (*models.File, io.ReadCloser, error) {
	file, err := e.store.GetFile(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: file %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}

	rc, err := e.disk.Open(ctx, file.Path+file.Name)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: physical file for %d is missing", ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %q: %v", ErrStorage, file.Path+file.Name, err)
	}
	return file, rc, nil
}

// DeleteFile removes a file record and, best-effort, its physical bytes.
// Physical failures are reported as a warning, never as a hard error: the
// metadata store is the authoritative side.
func (e *Engine) DeleteFile(ctx context.Context, id uint) (*DeleteFileResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	file, err := e.store.GetFile(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: file %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	result := &DeleteFileResult{ID: id, PhysicalDeleted: true}
	switch err := e.disk.Remove(ctx, file.Path+file.Name); {
	case errors.Is(err, storage.ErrNotExist):
		result.PhysicalDeleted = false
		result.Warning = "physical file was already missing"
	case err != nil:
		result.PhysicalDeleted = false
		result.Warning = fmt.Sprintf("failed to delete physical file: %v", err)
		log.Printf("delete file %d: %s", id, result.Warning)
	}

	if _, err := e.store.DeleteFile(ctx, id); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateFolder validates, probes for a collision, creates the physical
// directory, then commits the record. On conflict nothing is created.
func (e *Engine) CreateFolder(ctx context.Context, name, parentPath string) (*models.Folder, error) {
	if !utils.IsValidName(name) {
		return nil, fmt.Errorf("%w: unsafe folder name %q", ErrInvalidInput, name)
	}
	if !utils.IsValidPath(parentPath) {
		return nil, fmt.Errorf("%w: unsafe parent path %q", ErrInvalidInput, parentPath)
	}
	parentPath = normalizePath(parentPath)

	e.mu.Lock()
	defer e.mu.Unlock()

	exists, err := e.store.FolderNameExistsAt(ctx, name, parentPath, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: folder %q at %q", ErrConflict, name, parentPath)
	}

	if err := e.disk.MkdirAll(ctx, parentPath+name); err != nil {
		return nil, fmt.Errorf("%w: creating directory %q: %v", ErrStorage, parentPath+name, err)
	}

	folder := &models.Folder{Name: name, Path: parentPath, CreatedAt: utils.NowUTC()}
	if _, err := e.store.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// RenameFolder renames the folder's own record, then cascades the path
// rewrite to every descendant file and folder whose path embeds the old
// name as a segment. The folder's own Path does not change in a rename,
// only its Name; descendants change because their paths start with the
// renamed segment.
func (e *Engine) RenameFolder(ctx context.Context, oldName, newName, parentPath string) (*RenameResult, error) {
	if !utils.IsValidName(oldName) || !utils.IsValidName(newName) {
		return nil, fmt.Errorf("%w: unsafe folder name", ErrInvalidInput)
	}
	if !utils.IsValidPath(parentPath) {
		return nil, fmt.Errorf("%w: unsafe parent path %q", ErrInvalidInput, parentPath)
	}
	parentPath = normalizePath(parentPath)

	e.mu.Lock()
	defer e.mu.Unlock()

	folder, err := e.store.FindFolderByNameAndPath(ctx, oldName, parentPath)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: folder %q at %q", ErrNotFound, oldName, parentPath)
	}
	if err != nil {
		return nil, err
	}

	exists, err := e.store.FolderNameExistsAt(ctx, newName, parentPath, folder.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: folder %q at %q", ErrConflict, newName, parentPath)
	}

	// A missing physical directory is tolerated; the record still renames.
	err = e.disk.RenameDir(ctx, parentPath+oldName, parentPath+newName)
	if err != nil && !errors.Is(err, storage.ErrNotExist) {
		return nil, fmt.Errorf("%w: renaming directory %q: %v", ErrStorage, parentPath+oldName, err)
	}

	if err := e.store.UpdateFolderName(ctx, folder.ID, newName); err != nil {
		return nil, err
	}

	oldPrefix := parentPath + oldName + "/"
	newPrefix := parentPath + newName + "/"
	if err := e.store.UpdatePathsByPrefix(ctx, oldPrefix, newPrefix); err != nil {
		return nil, err
	}

	return &RenameResult{OldName: oldName, NewName: newName, ParentPath: parentPath}, nil
}

// DeleteFolder removes the folder and every descendant file and subfolder.
// The physical subtree is removed best-effort after the records: failures
// are logged and swallowed so no record is left pointing at a delete that
// already succeeded halfway.
func (e *Engine) DeleteFolder(ctx context.Context, id uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleteFolderTree(ctx, id)
}

// deleteFolderTree must run with e.mu held.
func (e *Engine) deleteFolderTree(ctx context.Context, id uint) error {
	folder, err := e.store.GetFolder(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: folder %d", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	prefix := folder.FullPath()

	files, err := e.store.ListFilesByPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	for _, f := range files {
		if _, err := e.store.DeleteFile(ctx, f.ID); err != nil {
			return err
		}
	}

	subfolders, err := e.store.ListFoldersByPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	for _, sub := range subfolders {
		// Deeper recursion may already have removed this one.
		if err := e.deleteFolderTree(ctx, sub.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	if _, err := e.store.DeleteFolder(ctx, id); err != nil {
		return err
	}

	if err := e.disk.RemoveAll(ctx, strings.TrimSuffix(prefix, "/")); err != nil {
		log.Printf("delete folder %d: failed to remove physical subtree %q: %v", id, prefix, err)
	}
	return nil
}

// ensureCategoryFolder provisions the root-level folder for a category.
// Record and directory are each created only if missing; one side existing
// without the other is reconciled, not treated as an error.
func (e *Engine) ensureCategoryFolder(ctx context.Context, category utils.Category) (string, error) {
	name := category.FolderName()

	if err := e.disk.MkdirAll(ctx, name); err != nil {
		log.Printf("ensure category folder %q: %v", name, err)
	}

	_, err := e.store.FindFolderByNameAndPath(ctx, name, "")
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}

	folder := &models.Folder{Name: name, Path: "", CreatedAt: utils.NowUTC()}
	if _, err := e.store.CreateFolder(ctx, folder); err != nil {
		return "", err
	}
	return name, nil
}

// uniqueFilename probes the store and appends _1, _2, ... before the
// extension until the name is free at the destination path.
func (e *Engine) uniqueFilename(ctx context.Context, path, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	unique := name
	for counter := 1; ; counter++ {
		exists, err := e.store.FileNameExistsAt(ctx, unique, path)
		if err != nil {
			return "", err
		}
		if !exists {
			return unique, nil
		}
		unique = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}

// normalizePath terminates non-root paths with a slash.
func normalizePath(path string) string {
	if path != "" && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}
