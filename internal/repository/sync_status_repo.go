package repository

import (
	"context"
	"errors"
	"time"

	"jaymapos/internal/model"

	"gorm.io/gorm"
)

const syncStatusRowID = 1

type SyncStatusRepository interface {
	// Get returns the singleton status row, creating it on first access.
	Get(ctx context.Context) (*model.SyncStatus, error)
	SetInProgress(ctx context.Context, inProgress bool) error
	TouchProductSync(ctx context.Context, at time.Time) error
	TouchSaleSync(ctx context.Context, at time.Time) error
	TouchDraftSync(ctx context.Context, at time.Time) error
}

type syncStatusRepo struct{ db *gorm.DB }

func NewSyncStatusRepository(db *gorm.DB) SyncStatusRepository { return &syncStatusRepo{db: db} }

func (r *syncStatusRepo) Get(ctx context.Context) (*model.SyncStatus, error) {
	var s model.SyncStatus
	err := r.db.WithContext(ctx).First(&s, syncStatusRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = model.SyncStatus{ID: syncStatusRowID}
		if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *syncStatusRepo) update(ctx context.Context, column string, value interface{}) error {
	if _, err := r.Get(ctx); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.SyncStatus{}).
		Where("id = ?", syncStatusRowID).
		Update(column, value).Error
}

func (r *syncStatusRepo) SetInProgress(ctx context.Context, inProgress bool) error {
	return r.update(ctx, "in_progress", inProgress)
}

func (r *syncStatusRepo) TouchProductSync(ctx context.Context, at time.Time) error {
	return r.update(ctx, "last_product_sync_at", at)
}

func (r *syncStatusRepo) TouchSaleSync(ctx context.Context, at time.Time) error {
	return r.update(ctx, "last_sale_sync_at", at)
}

func (r *syncStatusRepo) TouchDraftSync(ctx context.Context, at time.Time) error {
	return r.update(ctx, "last_draft_sync_at", at)
}
