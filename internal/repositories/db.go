package repositories

import (
	"fmt"

	"github.com/todoporunalma/formatos/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDatabase opens the Postgres connection and runs migrations.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.File{},
		&models.Folder{},
	); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
