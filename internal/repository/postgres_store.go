package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"storefront-service/internal/models"
)

// PostgresStore keeps sessions in the storefront_sessions table through gorm
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var record models.SessionRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(record.Value), nil
}

// Set upserts the key
func (s *PostgresStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	record := models.SessionRecord{
		SessionID: sessionID,
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID, key string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		Delete(&models.SessionRecord{}).Error
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
