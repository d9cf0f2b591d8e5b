// File: internal/infra/db/postgres/postgres_settings_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func (r *SettingsRepo) Find(ctx context.Context, userID string) (*model.UserSettings, error) {
	const q = `
SELECT user_id, chat_mode, voice_enabled, selected_voice, last_active_at, updated_at
FROM user_settings WHERE user_id = $1;`
	var s model.UserSettings
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&s.UserID, &s.ChatMode, &s.VoiceEnabled, &s.SelectedVoice, &s.LastActiveAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s *model.UserSettings) error {
	const q = `
INSERT INTO user_settings (user_id, chat_mode, voice_enabled, selected_voice, last_active_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (user_id) DO UPDATE SET
    chat_mode      = EXCLUDED.chat_mode,
    voice_enabled  = EXCLUDED.voice_enabled,
    selected_voice = EXCLUDED.selected_voice,
    last_active_at = EXCLUDED.last_active_at,
    updated_at     = NOW();`
	if _, err := r.pool.Exec(ctx, q, s.UserID, s.ChatMode, s.VoiceEnabled, s.SelectedVoice, s.LastActiveAt); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// TouchActivity stamps last_active_at without disturbing the rest of the row,
// inserting defaults for users who never opened the settings page.
func (r *SettingsRepo) TouchActivity(ctx context.Context, userID string) error {
	const q = `
INSERT INTO user_settings (user_id, chat_mode, voice_enabled, selected_voice, last_active_at, updated_at)
VALUES ($1, $2, FALSE, '', NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
    last_active_at = NOW(),
    updated_at     = NOW();`
	if _, err := r.pool.Exec(ctx, q, userID, model.ChatModeProfessional); err != nil {
		return fmt.Errorf("touch activity: %w", err)
	}
	return nil
}

func (r *SettingsRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM user_settings;`
	var n int64
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count settings: %w", err)
	}
	return n, nil
}
