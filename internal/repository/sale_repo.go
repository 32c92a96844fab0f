package repository

import (
	"context"

	"jaymapos/internal/dto"
	"jaymapos/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	// CommitSale persists a sale with its lines and payments in one
	// transaction. The assigned localId is stamped onto every line and
	// payment before the insert, so no reader can ever observe lines without
	// a sale or a sale without lines.
	CommitSale(ctx context.Context, sale *model.Sale, lines []model.SaleLine, payments []model.Payment) (int64, error)
	ListUnsynced(ctx context.Context) ([]model.Sale, error)
	CountUnsynced(ctx context.Context) (int64, error)
	// MarkSynced records the server acknowledgement. It is the only mutation
	// a sale ever receives after commit.
	MarkSynced(ctx context.Context, localID int64, serverID int) error
	FindByLocalID(ctx context.Context, localID int64) (*model.Sale, error)
	Lines(ctx context.Context, saleLocalID int64) ([]model.SaleLine, error)
	Payments(ctx context.Context, saleLocalID int64) ([]model.Payment, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CommitSale(ctx context.Context, sale *model.Sale, lines []model.SaleLine, payments []model.Payment) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].SaleLocalID = sale.LocalID
		}
		for i := range payments {
			payments[i].SaleLocalID = sale.LocalID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		if len(payments) > 0 {
			if err := tx.Create(&payments).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sale.LocalID, nil
}

func (r *saleRepo) ListUnsynced(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("synced = ?", false).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) CountUnsynced(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("synced = ?", false).
		Count(&n).Error
	return n, err
}

func (r *saleRepo) MarkSynced(ctx context.Context, localID int64, serverID int) error {
	return r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("local_id = ?", localID).
		Updates(map[string]interface{}{"server_id": serverID, "synced": true}).Error
}

func (r *saleRepo) FindByLocalID(ctx context.Context, localID int64) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Lines").Preload("Payments").
		First(&s, localID).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) Lines(ctx context.Context, saleLocalID int64) ([]model.SaleLine, error) {
	var lines []model.SaleLine
	err := r.db.WithContext(ctx).Where("sale_local_id = ?", saleLocalID).Find(&lines).Error
	return lines, err
}

func (r *saleRepo) Payments(ctx context.Context, saleLocalID int64) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).Where("sale_local_id = ?", saleLocalID).Find(&payments).Error
	return payments, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	switch filter.Synced {
	case "true":
		q = q.Where("synced = ?", true)
	case "false":
		q = q.Where("synced = ?", false)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Lines").Preload("Payments").
		Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&sales).Error
	return sales, total, err
}
