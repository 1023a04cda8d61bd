package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todoporunalma/formatos/internal/models"
	"github.com/todoporunalma/formatos/internal/repositories"
	"github.com/todoporunalma/formatos/internal/storage"
	"github.com/todoporunalma/formatos/internal/utils"
)

type fixture struct {
	engine *Engine
	store  *repositories.MemoryStore
	disk   *storage.Local
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	disk, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return &fixture{
		engine: NewEngine(store, disk),
		store:  store,
		disk:   disk,
	}
}

// seedFile plants a metadata record and matching physical bytes, the way
// an upload would have left them.
func (f *fixture) seedFile(t *testing.T, name, path string) uint {
	t.Helper()
	ctx := context.Background()
	now := utils.NowUTC()

	_, err := f.disk.Write(ctx, path+name, strings.NewReader("seeded"))
	require.NoError(t, err)

	id, err := f.store.CreateFile(ctx, &models.File{
		Name:        name,
		Path:        path,
		Size:        6,
		ContentType: utils.DetectMimeType(name),
		Category:    string(utils.Classify(name)),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return id
}

func TestUploadRoutesIntoCategoryFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	file, err := f.engine.Upload(ctx, "Informe Final.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "Informe_Final.pdf", file.Name)
	assert.Equal(t, "Documentos/", file.Path)
	assert.Equal(t, int64(8), file.Size)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "document", file.Category)
	assert.NotZero(t, file.ID)

	// The category folder record was auto-provisioned at the root.
	folder, err := f.store.FindFolderByNameAndPath(ctx, "Documentos", "")
	require.NoError(t, err)
	assert.Equal(t, "", folder.Path)

	// And the bytes landed where the record says.
	exists, err := f.disk.Exists(ctx, "Documentos/Informe_Final.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUploadCollapsesDotRunsInNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	file, err := f.engine.Upload(ctx, "informe..final.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "informe.final.pdf", file.Name)
	assert.Equal(t, "Documentos/", file.Path)
	assert.NotContains(t, file.Name, "..")

	exists, err := f.disk.Exists(ctx, "Documentos/informe.final.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUploadDuplicateNamesGetSuffixes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.engine.Upload(ctx, "informe.pdf", []byte("one"))
	require.NoError(t, err)
	second, err := f.engine.Upload(ctx, "informe.pdf", []byte("two"))
	require.NoError(t, err)
	third, err := f.engine.Upload(ctx, "informe.pdf", []byte("three"))
	require.NoError(t, err)

	assert.Equal(t, "informe.pdf", first.Name)
	assert.Equal(t, "informe_1.pdf", second.Name)
	assert.Equal(t, "informe_2.pdf", third.Name)

	listing, err := f.engine.List(ctx, "Documentos/")
	require.NoError(t, err)
	assert.Len(t, listing.Files, 3)
}

func TestUploadRejectsDangerousAndEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.engine.Upload(ctx, "malware.exe", []byte("MZ"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.engine.Upload(ctx, "payload.js", []byte("alert(1)"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.engine.Upload(ctx, "informe.pdf", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Nothing was written anywhere.
	listing, err := f.engine.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, listing.Files)
	assert.Empty(t, listing.Folders)
}

func TestUploadTimestampsRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	file, err := f.engine.Upload(ctx, "informe.pdf", []byte("x"))
	require.NoError(t, err)

	info := models.NewFileInfo(*file)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, info.CreatedAt)

	parsed, err := utils.ParseTime(info.CreatedAt)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(file.CreatedAt))
}

func TestCreateFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	folder, err := f.engine.CreateFolder(ctx, "Reports", "")
	require.NoError(t, err)
	assert.Equal(t, "Reports", folder.Name)
	assert.Equal(t, "", folder.Path)
	assert.NotZero(t, folder.ID)

	exists, err := f.disk.Exists(ctx, "Reports")
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("ConflictCreatesNothing", func(t *testing.T) {
		_, err := f.engine.CreateFolder(ctx, "Reports", "")
		assert.ErrorIs(t, err, ErrConflict)

		folders, err := f.store.ListFoldersAt(ctx, "")
		require.NoError(t, err)
		assert.Len(t, folders, 1)
	})

	t.Run("SameNameDifferentParentIsFine", func(t *testing.T) {
		_, err := f.engine.CreateFolder(ctx, "Reports", "Reports/")
		assert.NoError(t, err)
	})

	t.Run("RejectsUnsafeNames", func(t *testing.T) {
		for _, name := range []string{"", "..", "a/b", `a\b`, ".hidden", "trailing."} {
			_, err := f.engine.CreateFolder(ctx, name, "")
			assert.ErrorIs(t, err, ErrInvalidInput, "name %q", name)
		}
	})

	t.Run("RejectsUnsafePaths", func(t *testing.T) {
		_, err := f.engine.CreateFolder(ctx, "ok", "../escape/")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRenameFolderCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.engine.CreateFolder(ctx, "Reports", "")
	require.NoError(t, err)
	fileID := f.seedFile(t, "x.pdf", "Reports/")

	result, err := f.engine.RenameFolder(ctx, "Reports", "Informes", "")
	require.NoError(t, err)
	assert.Equal(t, "Reports", result.OldName)
	assert.Equal(t, "Informes", result.NewName)
	assert.Equal(t, "", result.ParentPath)

	// The file's path followed the rename.
	moved, err := f.store.GetFile(ctx, fileID)
	require.NoError(t, err)
	assert.Equal(t, "Informes/", moved.Path)

	// No record under the old prefix remains.
	stale, err := f.store.ListFilesByPrefix(ctx, "Reports/")
	require.NoError(t, err)
	assert.Empty(t, stale)

	// The folder's own record changed name, not path.
	folder, err := f.store.FindFolderByNameAndPath(ctx, "Informes", "")
	require.NoError(t, err)
	assert.Equal(t, "", folder.Path)
	_, err = f.store.FindFolderByNameAndPath(ctx, "Reports", "")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// The physical directory moved with it.
	exists, err := f.disk.Exists(ctx, "Informes/x.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = f.disk.Exists(ctx, "Reports")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRenameFolderDeepCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.engine.CreateFolder(ctx, "A", "")
	require.NoError(t, err)
	sub, err := f.engine.CreateFolder(ctx, "B", "A/")
	require.NoError(t, err)
	deepID := f.seedFile(t, "deep.pdf", "A/B/")

	_, err = f.engine.RenameFolder(ctx, "A", "Z", "")
	require.NoError(t, err)

	movedSub, err := f.store.GetFolder(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Z/", movedSub.Path)

	deep, err := f.store.GetFile(ctx, deepID)
	require.NoError(t, err)
	assert.Equal(t, "Z/B/", deep.Path)
}

func TestRenameFolderErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.engine.CreateFolder(ctx, "One", "")
	require.NoError(t, err)
	_, err = f.engine.CreateFolder(ctx, "Two", "")
	require.NoError(t, err)

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.engine.RenameFolder(ctx, "Missing", "Whatever", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Conflict", func(t *testing.T) {
		_, err := f.engine.RenameFolder(ctx, "One", "Two", "")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("RenameToOwnNameIsNotAConflict", func(t *testing.T) {
		_, err := f.engine.RenameFolder(ctx, "One", "One", "")
		assert.NoError(t, err)
	})

	t.Run("MissingPhysicalDirIsTolerated", func(t *testing.T) {
		require.NoError(t, f.disk.RemoveAll(ctx, "Two"))
		_, err := f.engine.RenameFolder(ctx, "Two", "Dos", "")
		assert.NoError(t, err)

		_, err = f.store.FindFolderByNameAndPath(ctx, "Dos", "")
		assert.NoError(t, err)
	})
}

func TestDeleteFolderRecursive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	parent, err := f.engine.CreateFolder(ctx, "Parent", "")
	require.NoError(t, err)
	_, err = f.engine.CreateFolder(ctx, "Child", "Parent/")
	require.NoError(t, err)
	f.seedFile(t, "direct.pdf", "Parent/")
	f.seedFile(t, "nested.pdf", "Parent/Child/")

	// Unrelated records must survive.
	outsideFolder, err := f.engine.CreateFolder(ctx, "Other", "")
	require.NoError(t, err)
	outsideFile := f.seedFile(t, "keep.pdf", "Other/")

	require.NoError(t, f.engine.DeleteFolder(ctx, parent.ID))

	// Exactly the subtree is gone: 2 files, 2 folders.
	files, err := f.store.ListFilesByPrefix(ctx, "Parent/")
	require.NoError(t, err)
	assert.Empty(t, files)
	folders, err := f.store.ListFoldersByPrefix(ctx, "Parent/")
	require.NoError(t, err)
	assert.Empty(t, folders)
	_, err = f.store.GetFolder(ctx, parent.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = f.store.GetFolder(ctx, outsideFolder.ID)
	assert.NoError(t, err)
	_, err = f.store.GetFile(ctx, outsideFile)
	assert.NoError(t, err)

	// Physical subtree removed too.
	exists, err := f.disk.Exists(ctx, "Parent")
	require.NoError(t, err)
	assert.False(t, exists)

	t.Run("NotFoundAfterwards", func(t *testing.T) {
		assert.ErrorIs(t, f.engine.DeleteFolder(ctx, parent.ID), ErrNotFound)
	})
}

func TestDeleteFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id := f.seedFile(t, "a.pdf", "")

	result, err := f.engine.DeleteFile(ctx, id)
	require.NoError(t, err)
	assert.True(t, result.PhysicalDeleted)
	assert.Empty(t, result.Warning)

	_, err = f.store.GetFile(ctx, id)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.engine.DeleteFile(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("MissingPhysicalFileIsAWarningNotAnError", func(t *testing.T) {
		id := f.seedFile(t, "ghost.pdf", "")
		require.NoError(t, f.disk.Remove(ctx, "ghost.pdf"))

		result, err := f.engine.DeleteFile(ctx, id)
		require.NoError(t, err)
		assert.False(t, result.PhysicalDeleted)
		assert.NotEmpty(t, result.Warning)

		// The record is removed regardless: metadata is authoritative.
		_, err = f.store.GetFile(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestListNormalizesAndNeverErrorsOnUnknownPaths(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	listing, err := f.engine.List(ctx, "Nowhere")
	require.NoError(t, err)
	assert.Equal(t, "Nowhere/", listing.Path)
	assert.NotNil(t, listing.Files)
	assert.NotNil(t, listing.Folders)
	assert.Empty(t, listing.Files)
	assert.Empty(t, listing.Folders)

	t.Run("RejectsTraversal", func(t *testing.T) {
		_, err := f.engine.List(ctx, "../etc")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

// brokenStore fails every listing, standing in for a lost database.
type brokenStore struct {
	*repositories.MemoryStore
}

func (s *brokenStore) ListFilesAt(context.Context, string) ([]models.File, error) {
	return nil, errors.New("connection refused")
}

func (s *brokenStore) ListFoldersAt(context.Context, string) ([]models.Folder, error) {
	return nil, errors.New("connection refused")
}

func TestListTagsStoreFailures(t *testing.T) {
	ctx := context.Background()
	disk, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	engine := NewEngine(&brokenStore{repositories.NewMemoryStore()}, disk)

	_, err = engine.List(ctx, "Documentos/")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	file, err := f.engine.Upload(ctx, "informe.pdf", []byte("contents"))
	require.NoError(t, err)

	got, rc, err := f.engine.Download(ctx, file.ID)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))
	assert.Equal(t, file.Name, got.Name)

	t.Run("UnknownID", func(t *testing.T) {
		_, _, err := f.engine.Download(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("MissingPhysicalFile", func(t *testing.T) {
		require.NoError(t, f.disk.Remove(ctx, file.Path+file.Name))
		_, _, err := f.engine.Download(ctx, file.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
