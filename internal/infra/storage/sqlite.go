package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cnpycalc/internal/domain"
)

// Storage — журнал конверсий в SQLite (pure Go драйвер, без cgo).
type Storage struct {
	db *gorm.DB
}

func New(dbPath string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create DB directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.ConversionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// SaveConversion — записывает принятую лаунчпадом заявку.
func (s *Storage) SaveConversion(rec *domain.ConversionRecord) error {
	return s.db.Create(rec).Error
}

// RecentConversions — последние записи, свежие первыми.
func (s *Storage) RecentConversions(limit int) ([]domain.ConversionRecord, error) {
	var recs []domain.ConversionRecord
	err := s.db.Order("created_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}
