package repository

import (
	"context"

	"fedup-chat/internal/domain/model"
)

// SettingsRepository persists per-user preferences. Find returns
// domain.ErrNotFound for a user with no saved settings.
type SettingsRepository interface {
	Find(ctx context.Context, userID string) (*model.UserSettings, error)
	Save(ctx context.Context, s *model.UserSettings) error
	TouchActivity(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
}
