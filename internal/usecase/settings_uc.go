// File: internal/usecase/settings_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/repository"
)

// Compile-time check
var _ SettingsUseCase = (*settingsUC)(nil)

type SettingsUseCase interface {
	// Get returns stored settings, or defaults for a first-time user.
	Get(ctx context.Context, userID string) (*model.UserSettings, error)
	Update(ctx context.Context, userID string, mode model.ChatMode, voiceEnabled bool, selectedVoice string) (*model.UserSettings, error)
}

type settingsUC struct {
	settings repository.SettingsRepository
	now      func() time.Time
}

func NewSettingsUseCase(settings repository.SettingsRepository) *settingsUC {
	return &settingsUC{settings: settings, now: time.Now}
}

func (u *settingsUC) Get(ctx context.Context, userID string) (*model.UserSettings, error) {
	s, err := u.settings.Find(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return model.DefaultSettings(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (u *settingsUC) Update(ctx context.Context, userID string, mode model.ChatMode, voiceEnabled bool, selectedVoice string) (*model.UserSettings, error) {
	if !mode.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	s, err := u.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.ChatMode = mode
	s.VoiceEnabled = voiceEnabled
	s.SelectedVoice = selectedVoice
	s.LastActiveAt = u.now()
	s.UpdatedAt = u.now()
	if err := u.settings.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
