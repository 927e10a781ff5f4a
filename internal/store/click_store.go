package store

import (
	"context"
	"fmt"
	"time"

	"click-tracker/internal/model"

	"gorm.io/gorm"
)

// ClickStore records clicks against pre-provisioned envios_clicks rows
type ClickStore struct {
	db *gorm.DB
}

// NewClickStore creates a store over db
func NewClickStore(db *gorm.DB) *ClickStore {
	return &ClickStore{db: db}
}

// RecordClick bumps the counter of the row holding token, stamps it with at
// and overwrites its destination. The increment happens inside the UPDATE so
// concurrent clicks cannot lose each other. It reports whether a row matched;
// rows are never created here.
func (s *ClickStore) RecordClick(ctx context.Context, token, destination string, at time.Time) (bool, error) {
	var matched bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ClickRecord{}).
			Where("token = ?", token).
			Updates(map[string]interface{}{
				"clicks_count":  gorm.Expr("COALESCE(clicks_count, 0) + 1"),
				"last_click_at": at,
				"url_destino":   destination,
			})
		if res.Error != nil {
			return res.Error
		}
		matched = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("record click: %w", err)
	}
	return matched, nil
}

// Ping runs a trivial query to prove the database answers
func (s *ClickStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
