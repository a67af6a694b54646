package codestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoredCode is one outstanding code. SQL has no native expiry, so ExpiresAt is
// checked on every read and expired rows are swept by StartCleanup.
type StoredCode struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Key       string    `json:"key" gorm:"column:code_key;size:320;uniqueIndex;not null"`
	Value     string    `json:"-" gorm:"column:code;size:64;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}

func (StoredCode) TableName() string {
	return "verification_codes"
}

type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

type SQLOption func(*SQLStore)

func WithSQLClock(now func() time.Time) SQLOption {
	return func(s *SQLStore) {
		s.now = now
	}
}

func NewSQLStore(db *gorm.DB, opts ...SQLOption) *SQLStore {
	store := &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var row StoredCode
	err := s.db.WithContext(ctx).
		Where("code_key = ? AND expires_at > ?", key, s.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return row.Value, true, nil
}

func (s *SQLStore) SetWithExpire(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := checkTTL(ttl); err != nil {
		return err
	}

	row := StoredCode{Key: key, Value: value, ExpiresAt: s.now().Add(ttl)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error) {
	if err := checkTTL(ttl); err != nil {
		return "", false, err
	}

	var (
		stored  string
		created bool
	)

	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// an expired row still holds the unique key
		if err := tx.Where("code_key = ? AND expires_at <= ?", key, now).Delete(&StoredCode{}).Error; err != nil {
			return err
		}

		row := StoredCode{Key: key, Value: value, ExpiresAt: now.Add(ttl)}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			stored, created = value, true
			return nil
		}

		var existing StoredCode
		if err := tx.Where("code_key = ?", key).First(&existing).Error; err != nil {
			return err
		}
		stored = existing.Value
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return stored, created, nil
}

// DeleteExpired removes rows past their expiry and reports how many went.
func (s *SQLStore) DeleteExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&StoredCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, result.Error)
	}
	return result.RowsAffected, nil
}

// StartCleanup sweeps expired rows every interval until ctx ends.
func (s *SQLStore) StartCleanup(ctx context.Context, interval time.Duration, onSweep func(deleted int64, err error)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.DeleteExpired(ctx)
				if onSweep != nil {
					onSweep(deleted, err)
				}
			}
		}
	}()
}
