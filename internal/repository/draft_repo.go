package repository

import (
	"context"

	"jaymapos/internal/model"

	"gorm.io/gorm"
)

type DraftRepository interface {
	// Create persists a draft with its lines in one transaction.
	Create(ctx context.Context, draft *model.Draft, lines []model.DraftLine) (int64, error)
	List(ctx context.Context) ([]model.Draft, error)
	ListUnsynced(ctx context.Context) ([]model.Draft, error)
	FindByLocalID(ctx context.Context, localID int64) (*model.Draft, error)
	Lines(ctx context.Context, draftLocalID int64) ([]model.DraftLine, error)
	MarkSynced(ctx context.Context, localID int64, serverID int) error
	Delete(ctx context.Context, localID int64) error
}

type draftRepo struct{ db *gorm.DB }

func NewDraftRepository(db *gorm.DB) DraftRepository { return &draftRepo{db: db} }

func (r *draftRepo) Create(ctx context.Context, draft *model.Draft, lines []model.DraftLine) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(draft).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].DraftLocalID = draft.LocalID
		}
		if len(lines) > 0 {
			return tx.Create(&lines).Error
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return draft.LocalID, nil
}

func (r *draftRepo) List(ctx context.Context) ([]model.Draft, error) {
	var drafts []model.Draft
	err := r.db.WithContext(ctx).Preload("Lines").Order("created_at DESC").Find(&drafts).Error
	return drafts, err
}

func (r *draftRepo) ListUnsynced(ctx context.Context) ([]model.Draft, error) {
	var drafts []model.Draft
	err := r.db.WithContext(ctx).Where("synced = ?", false).Order("created_at ASC").Find(&drafts).Error
	return drafts, err
}

func (r *draftRepo) FindByLocalID(ctx context.Context, localID int64) (*model.Draft, error) {
	var d model.Draft
	err := r.db.WithContext(ctx).Preload("Lines").First(&d, localID).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *draftRepo) Lines(ctx context.Context, draftLocalID int64) ([]model.DraftLine, error) {
	var lines []model.DraftLine
	err := r.db.WithContext(ctx).Where("draft_local_id = ?", draftLocalID).Find(&lines).Error
	return lines, err
}

func (r *draftRepo) MarkSynced(ctx context.Context, localID int64, serverID int) error {
	return r.db.WithContext(ctx).Model(&model.Draft{}).
		Where("local_id = ?", localID).
		Updates(map[string]interface{}{"server_id": serverID, "synced": true}).Error
}

func (r *draftRepo) Delete(ctx context.Context, localID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("draft_local_id = ?", localID).Delete(&model.DraftLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Draft{}, localID).Error
	})
}
