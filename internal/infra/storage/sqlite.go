package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quicky/internal/domain"
)

// Storage is the sqlite-backed order-attempt journal. It satisfies
// domain.Journal and only ever appends; attempts are never updated.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the journal database. An empty path selects
// the per-user default location.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		var err error
		if path, err = defaultDBPath(); err != nil {
			return nil, fmt.Errorf("failed to resolve journal path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := db.AutoMigrate(&domain.OrderAttempt{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &Storage{db: db}, nil
}

func defaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "quicky", "data", "quicky.db"), nil
}

// RecordAttempt appends one attempt row.
func (s *Storage) RecordAttempt(att *domain.OrderAttempt) error {
	return s.db.Create(att).Error
}

// RecentAttempts returns up to limit attempts, newest first.
func (s *Storage) RecentAttempts(limit int) ([]domain.OrderAttempt, error) {
	var attempts []domain.OrderAttempt
	err := s.db.Order("id DESC").Limit(limit).Find(&attempts).Error
	return attempts, err
}
