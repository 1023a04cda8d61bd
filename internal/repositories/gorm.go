package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/todoporunalma/formatos/internal/models"
	"github.com/todoporunalma/formatos/internal/utils"
	"gorm.io/gorm"
)

// GormStore is the Postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore connects to Postgres, runs migrations, and returns the store.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := ConnectDatabase(dsn)
	if err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateFile(ctx context.Context, file *models.File) (uint, error) {
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return 0, err
	}
	return file.ID, nil
}

func (s *GormStore) GetFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).First(&file, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *GormStore) ListFilesAt(ctx context.Context, path string) ([]models.File, error) {
	files := make([]models.File, 0)
	err := s.db.WithContext(ctx).
		Where("path = ?", path).
		Order("created_at DESC, id DESC").
		Find(&files).Error
	return files, err
}

func (s *GormStore) ListFilesByPrefix(ctx context.Context, prefix string) ([]models.File, error) {
	files := make([]models.File, 0)
	err := s.db.WithContext(ctx).
		Where("path LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("created_at DESC, id DESC").
		Find(&files).Error
	return files, err
}

func (s *GormStore) DeleteFile(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.File{}, id)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) FileNameExistsAt(ctx context.Context, name, path string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.File{}).
		Where("name = ? AND path = ?", name, path).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreateFolder(ctx context.Context, folder *models.Folder) (uint, error) {
	if err := s.db.WithContext(ctx).Create(folder).Error; err != nil {
		return 0, err
	}
	return folder.ID, nil
}

func (s *GormStore) GetFolder(ctx context.Context, id uint) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).First(&folder, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *GormStore) ListFoldersAt(ctx context.Context, path string) ([]models.Folder, error) {
	folders := make([]models.Folder, 0)
	err := s.db.WithContext(ctx).
		Where("path = ?", path).
		Order("created_at DESC, id DESC").
		Find(&folders).Error
	return folders, err
}

func (s *GormStore) ListFoldersByPrefix(ctx context.Context, prefix string) ([]models.Folder, error) {
	folders := make([]models.Folder, 0)
	err := s.db.WithContext(ctx).
		Where("path LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("created_at DESC, id DESC").
		Find(&folders).Error
	return folders, err
}

func (s *GormStore) DeleteFolder(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Folder{}, id)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) FolderNameExistsAt(ctx context.Context, name, path string, excludeID uint) (bool, error) {
	query := s.db.WithContext(ctx).Model(&models.Folder{}).
		Where("name = ? AND path = ?", name, path)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (s *GormStore) FindFolderByNameAndPath(ctx context.Context, name, path string) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).
		Where("name = ? AND path = ?", name, path).
		First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *GormStore) UpdateFolderName(ctx context.Context, id uint, name string) error {
	res := s.db.WithContext(ctx).Model(&models.Folder{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UpdatePathsByPrefix(ctx context.Context, oldPrefix, newPrefix string) error {
	pattern := escapeLike(oldPrefix) + "%"
	now := utils.NowUTC()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var files []models.File
		if err := tx.Where("path LIKE ? ESCAPE '\\'", pattern).Find(&files).Error; err != nil {
			return err
		}
		for _, f := range files {
			path := newPrefix + strings.TrimPrefix(f.Path, oldPrefix)
			err := tx.Model(&models.File{}).Where("id = ?", f.ID).
				Updates(map[string]any{"path": path, "updated_at": now}).Error
			if err != nil {
				return err
			}
		}

		var folders []models.Folder
		if err := tx.Where("path LIKE ? ESCAPE '\\'", pattern).Find(&folders).Error; err != nil {
			return err
		}
		for _, f := range folders {
			path := newPrefix + strings.TrimPrefix(f.Path, oldPrefix)
			err := tx.Model(&models.Folder{}).Where("id = ?", f.ID).
				Update("path", path).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// escapeLike escapes LIKE metacharacters so stored paths (which routinely
// contain underscores from sanitization) match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
