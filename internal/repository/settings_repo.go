package repository

import (
	"context"
	"errors"

	"storefront-service/internal/models"

	"gorm.io/gorm"
)

const settingsRowID = 1

type SettingsRepo interface {
	Get(ctx context.Context) (*models.Settings, error)
	EnsureRow(ctx context.Context) error
	// UpdateVersioned применяет изменения только если version совпал
	UpdateVersioned(ctx context.Context, version int, fields map[string]any) (bool, error)
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepo(db *gorm.DB) SettingsRepo { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	err := r.db.WithContext(ctx).First(&s, "id = ?", settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *settingsRepo) EnsureRow(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`
INSERT INTO settings (id, ticker, contact_email, contact_phone, version, updated_at)
VALUES (?, '', '', '', 0, now())
ON CONFLICT (id) DO NOTHING;
`, settingsRowID).Error
}

func (r *settingsRepo) UpdateVersioned(ctx context.Context, version int, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	fields["version"] = version + 1
	tx := r.db.WithContext(ctx).Model(&models.Settings{}).
		Where("id = ? AND version = ?", settingsRowID, version).
		Updates(fields)
	return tx.RowsAffected > 0, tx.Error
}
