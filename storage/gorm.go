package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartBlob is the persisted row for one key. The payload is the same JSON
// snapshot the FileStore would write to disk.
type CartBlob struct {
	Key       string `gorm:"primaryKey"`
	Payload   []byte
	UpdatedAt time.Time
}

// GormStore persists blobs in a relational table, for deployments where the
// gateway runs with Postgres instead of a local data directory.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&CartBlob{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(key string) ([]byte, error) {
	var blob CartBlob
	if err := s.db.First(&blob, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return blob.Payload, nil
}

func (s *GormStore) Save(key string, value []byte) error {
	blob := CartBlob{Key: key, Payload: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&blob).Error
}

func (s *GormStore) Delete(key string) error {
	return s.db.Delete(&CartBlob{}, "key = ?", key).Error
}
