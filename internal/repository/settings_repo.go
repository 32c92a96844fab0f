package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"jaymapos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidBaseURL is returned when a cashier tries to persist a tenant
// domain that is not an absolute http(s) URL.
var ErrInvalidBaseURL = errors.New("base url must start with http:// or https://")

// SettingsRepository is the generic persisted key/value config store. It also
// implements gateway.BaseURLProvider so the remote client re-resolves the
// tenant domain on every request.
type SettingsRepository interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	GetInt(ctx context.Context, key string) (int, bool, error)
	SetInt(ctx context.Context, key string, value int) error
	Delete(ctx context.Context, key string) error

	APIBaseURL(ctx context.Context) (string, error)
	SetAPIBaseURL(ctx context.Context, baseURL string) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) GetString(ctx context.Context, key string) (string, bool, error) {
	var s model.Setting
	err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s.Value, true, nil
}

func (r *settingsRepo) SetString(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model.Setting{Key: key, Value: value}).Error
}

func (r *settingsRepo) GetInt(ctx context.Context, key string) (int, bool, error) {
	raw, ok, err := r.GetString(ctx, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

func (r *settingsRepo) SetInt(ctx context.Context, key string, value int) error {
	return r.SetString(ctx, key, strconv.Itoa(value))
}

func (r *settingsRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&model.Setting{}, "key = ?", key).Error
}

func (r *settingsRepo) APIBaseURL(ctx context.Context) (string, error) {
	url, _, err := r.GetString(ctx, model.SettingAPIBaseURL)
	if err != nil {
		return "", err
	}
	return url, nil
}

func (r *settingsRepo) SetAPIBaseURL(ctx context.Context, baseURL string) error {
	baseURL = strings.TrimSpace(baseURL)
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return ErrInvalidBaseURL
	}
	return r.SetString(ctx, model.SettingAPIBaseURL, strings.TrimRight(baseURL, "/"))
}
