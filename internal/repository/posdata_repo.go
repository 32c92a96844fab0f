package repository

import (
	"context"

	"jaymapos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PosDataRepository caches the bootstrap reference data: clients, warehouses,
// categories, brands and payment methods. Each Replace* call swaps the whole
// table in one transaction — the bootstrap payload is authoritative.
type PosDataRepository interface {
	ReplaceClients(ctx context.Context, clients []model.Client) error
	ReplaceWarehouses(ctx context.Context, warehouses []model.Warehouse) error
	ReplaceCategories(ctx context.Context, categories []model.Category) error
	ReplaceBrands(ctx context.Context, brands []model.Brand) error
	ReplacePaymentMethods(ctx context.Context, methods []model.PaymentMethod) error
	UpsertClient(ctx context.Context, client *model.Client) error

	ListClients(ctx context.Context) ([]model.Client, error)
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)
	ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	DefaultClient(ctx context.Context) (*model.Client, error)
	DefaultWarehouse(ctx context.Context) (*model.Warehouse, error)
}

type posDataRepo struct{ db *gorm.DB }

func NewPosDataRepository(db *gorm.DB) PosDataRepository { return &posDataRepo{db: db} }

// replaceAll deletes every row of dst's table and inserts rows, atomically.
func (r *posDataRepo) replaceAll(ctx context.Context, dst interface{}, rows interface{}, count int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(dst).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		return tx.Create(rows).Error
	})
}

func (r *posDataRepo) ReplaceClients(ctx context.Context, clients []model.Client) error {
	return r.replaceAll(ctx, &model.Client{}, &clients, len(clients))
}

func (r *posDataRepo) ReplaceWarehouses(ctx context.Context, warehouses []model.Warehouse) error {
	return r.replaceAll(ctx, &model.Warehouse{}, &warehouses, len(warehouses))
}

func (r *posDataRepo) ReplaceCategories(ctx context.Context, categories []model.Category) error {
	return r.replaceAll(ctx, &model.Category{}, &categories, len(categories))
}

func (r *posDataRepo) ReplaceBrands(ctx context.Context, brands []model.Brand) error {
	return r.replaceAll(ctx, &model.Brand{}, &brands, len(brands))
}

func (r *posDataRepo) ReplacePaymentMethods(ctx context.Context, methods []model.PaymentMethod) error {
	return r.replaceAll(ctx, &model.PaymentMethod{}, &methods, len(methods))
}

func (r *posDataRepo) UpsertClient(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(client).Error
}

func (r *posDataRepo) ListClients(ctx context.Context) ([]model.Client, error) {
	var out []model.Client
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *posDataRepo) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	var out []model.Warehouse
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *posDataRepo) ListPaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	var out []model.PaymentMethod
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *posDataRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *posDataRepo) ListBrands(ctx context.Context) ([]model.Brand, error) {
	var out []model.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *posDataRepo) DefaultClient(ctx context.Context) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *posDataRepo) DefaultWarehouse(ctx context.Context) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}
