package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/todoporunalma/formatos/internal/models"
	"github.com/todoporunalma/formatos/internal/utils"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the service when
// no database is configured and is the fixture store for tests.
type MemoryStore struct {
	mu        sync.RWMutex
	files     map[uint]models.File
	folders   map[uint]models.Folder
	fileSeq   uint
	folderSeq uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files:   make(map[uint]models.File),
		folders: make(map[uint]models.Folder),
	}
}

func (s *MemoryStore) CreateFile(_ context.Context, file *models.File) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fileSeq++
	file.ID = s.fileSeq
	s.files[file.ID] = *file
	return file.ID, nil
}

func (s *MemoryStore) GetFile(_ context.Context, id uint) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemoryStore) ListFilesAt(_ context.Context, path string) ([]models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.File, 0)
	for _, f := range s.files {
		if f.Path == path {
			out = append(out, f)
		}
	}
	sortFiles(out)
	return out, nil
}

func (s *MemoryStore) ListFilesByPrefix(_ context.Context, prefix string) ([]models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.File, 0)
	for _, f := range s.files {
		if strings.HasPrefix(f.Path, prefix) {
			out = append(out, f)
		}
	}
	sortFiles(out)
	return out, nil
}

func (s *MemoryStore) DeleteFile(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return false, nil
	}
	delete(s.files, id)
	return true, nil
}

func (s *MemoryStore) FileNameExistsAt(_ context.Context, name, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.files {
		if f.Name == name && f.Path == path {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CreateFolder(_ context.Context, folder *models.Folder) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.folderSeq++
	folder.ID = s.folderSeq
	s.folders[folder.ID] = *folder
	return folder.ID, nil
}

func (s *MemoryStore) GetFolder(_ context.Context, id uint) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemoryStore) ListFoldersAt(_ context.Context, path string) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Folder, 0)
	for _, f := range s.folders {
		if f.Path == path {
			out = append(out, f)
		}
	}
	sortFolders(out)
	return out, nil
}

func (s *MemoryStore) ListFoldersByPrefix(_ context.Context, prefix string) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Folder, 0)
	for _, f := range s.folders {
		if strings.HasPrefix(f.Path, prefix) {
			out = append(out, f)
		}
	}
	sortFolders(out)
	return out, nil
}

func (s *MemoryStore) DeleteFolder(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[id]; !ok {
		return false, nil
	}
	delete(s.folders, id)
	return true, nil
}

func (s *MemoryStore) FolderNameExistsAt(_ context.Context, name, path string, excludeID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.folders {
		if f.Name == name && f.Path == path && f.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) FindFolderByNameAndPath(_ context.Context, name, path string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.folders {
		if f.Name == name && f.Path == path {
			found := f
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateFolderName(_ context.Context, id uint, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return ErrNotFound
	}
	f.Name = name
	s.folders[id] = f
	return nil
}

func (s *MemoryStore) UpdatePathsByPrefix(_ context.Context, oldPrefix, newPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := utils.NowUTC()
	for id, f := range s.files {
		if strings.HasPrefix(f.Path, oldPrefix) {
			f.Path = newPrefix + strings.TrimPrefix(f.Path, oldPrefix)
			f.UpdatedAt = now
			s.files[id] = f
		}
	}
	for id, f := range s.folders {
		if strings.HasPrefix(f.Path, oldPrefix) {
			f.Path = newPrefix + strings.TrimPrefix(f.Path, oldPrefix)
			s.folders[id] = f
		}
	}
	return nil
}

func sortFiles(files []models.File) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].CreatedAt.After(files[j].CreatedAt)
		}
		return files[i].ID > files[j].ID
	})
}

func sortFolders(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		if !folders[i].CreatedAt.Equal(folders[j].CreatedAt) {
			return folders[i].CreatedAt.After(folders[j].CreatedAt)
		}
		return folders[i].ID > folders[j].ID
	})
}
