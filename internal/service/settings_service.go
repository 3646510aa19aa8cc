package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

type SettingsPatch struct {
	Ticker       *string
	ContactEmail *string
	ContactPhone *string
	// Version — версия, которую видел клиент; несовпадение = конфликт
	Version int
}

type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, patch SettingsPatch) (*models.Settings, error)
}

type settingsService struct {
	repo *repository.Repository
}

func NewSettingsService(repo *repository.Repository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	row, err := s.repo.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		// первая выборка на чистой базе — создаём строку по умолчанию
		if err := s.repo.Settings.EnsureRow(ctx); err != nil {
			return nil, err
		}
		return s.repo.Settings.Get(ctx)
	}
	return row, nil
}

func (s *settingsService) Update(ctx context.Context, patch SettingsPatch) (*models.Settings, error) {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != RoleAdmin {
		return nil, ErrForbidden
	}

	fields := map[string]any{}
	if patch.Ticker != nil {
		fields["ticker"] = *patch.Ticker
	}
	if patch.ContactEmail != nil {
		fields["contact_email"] = *patch.ContactEmail
	}
	if patch.ContactPhone != nil {
		fields["contact_phone"] = *patch.ContactPhone
	}
	if len(fields) == 0 {
		return s.Get(ctx)
	}

	ok, err := s.repo.Settings.UpdateVersioned(ctx, patch.Version, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSettingsVersion
	}
	return s.repo.Settings.Get(ctx)
}
