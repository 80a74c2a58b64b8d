package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type collectionRow struct {
	Name      string         `gorm:"primaryKey"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string {
	return "collections"
}

// GormStore implements Store on a relational collections table with a JSON
// payload column. Used when several installs share a central database.
type GormStore struct {
	db *gorm.DB
}

// OpenPostgres connects to PostgreSQL via GORM and runs the collections
// migration.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("kv: connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("kv: migrate collections table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// NewGormStore wraps an existing connection; the caller is responsible for
// migrations.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, collection string) ([]byte, error) {
	var row collectionRow
	err := s.db.WithContext(ctx).First(&row, "name = ?", collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: load %s: %w", collection, err)
	}
	return []byte(row.Payload), nil
}

func (s *GormStore) Save(ctx context.Context, collection string, payload []byte) error {
	row := collectionRow{
		Name:      collection,
		Payload:   datatypes.JSON(payload),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("kv: save %s: %w", collection, err)
	}
	return nil
}
