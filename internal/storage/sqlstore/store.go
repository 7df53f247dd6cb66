// Package sqlstore persists the message log in a SQL database through gorm.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

// Store implements chat.Store on a gorm connection.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to postgres or sqlite and migrates the messages table.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return New(db)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&messageModel{}); err != nil {
		return nil, fmt.Errorf("migrate messages: %w", err)
	}
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}, nil
}

// Create inserts a message and lets the database assign its id.
func (s *Store) Create(ctx context.Context, msg chat.NewMessage) (chat.Message, error) {
	m, err := toMessageModel(msg, s.now())
	if err != nil {
		return chat.Message{}, chat.NewStoreError("create", err)
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return chat.Message{}, chat.NewStoreError("create", fmt.Errorf("failed to create message: %w", err))
	}

	stored, err := m.toDomain()
	if err != nil {
		return chat.Message{}, chat.NewStoreError("create", err)
	}
	return stored, nil
}

// ListBySession returns the session log ordered by created_at, then id.
func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]chat.Message, error) {
	var models []messageModel
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Order("id asc").
		Find(&models).Error; err != nil {
		return nil, chat.NewStoreError("list", fmt.Errorf("failed to get messages: %w", err))
	}

	messages := make([]chat.Message, 0, len(models))
	for i := range models {
		msg, err := models[i].toDomain()
		if err != nil {
			return nil, chat.NewStoreError("list", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// ClearSession deletes the session rows in a single statement.
func (s *Store) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&messageModel{}).Error; err != nil {
		return chat.NewStoreError("clear", fmt.Errorf("failed to delete messages: %w", err))
	}
	return nil
}

// Delete removes one row by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&messageModel{}, id).Error; err != nil {
		return chat.NewStoreError("delete", fmt.Errorf("failed to delete message: %w", err))
	}
	return nil
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
