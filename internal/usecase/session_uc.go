// File: internal/usecase/session_uc.go
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
var _ SessionUseCase = (*sessionUC)(nil)

// SessionState is what a client needs to hydrate a chat screen: the ordered
// transcript plus the quota counters that gate the send button.
type SessionState struct {
	Messages       []model.Message
	UserTurns      int
	VoiceUserTurns int
	Caps           model.QuotaCaps
}

type SessionUseCase interface {
	// Load hydrates the session. An empty transcript gets a welcome message
	// synthesized and persisted before returning.
	Load(ctx context.Context, userID string) (*SessionState, error)
	Append(ctx context.Context, userID string, text string, isUser bool) (*model.Message, error)
	// DeleteAll wipes the transcript and seeds a fresh welcome message. The
	// quota ledger is never touched; deleting history does not refund turns.
	DeleteAll(ctx context.Context, userID string) (*SessionState, error)
}

type sessionUC struct {
	messages repository.MessageRepository
	settings repository.SettingsRepository
	quota    QuotaUseCase
	now      func() time.Time
}

func NewSessionUseCase(messages repository.MessageRepository, settings repository.SettingsRepository, quota QuotaUseCase) *sessionUC {
	return &sessionUC{messages: messages, settings: settings, quota: quota, now: time.Now}
}

const reunionAbsence = 7 * 24 * time.Hour

// welcomeText picks the greeting for an empty transcript. A user who has
// been away more than a week gets the reunion variant.
func welcomeText(mode model.ChatMode, lastActive time.Time, now time.Time) string {
	away := !lastActive.IsZero() && now.Sub(lastActive) > reunionAbsence
	if mode == model.ChatModeBestie {
		if away {
			return "Heyyy, it's been a while bestie! I've missed you. How have you been holding up?"
		}
		return "Hey bestie! I'm right here with you. What's on your mind today?"
	}
	if away {
		return "It's been a while. No pressure to explain the silence. What's going on with you these days?"
	}
	return "Hey. I'm here, no judgment. What's weighing on you today?"
}

func (u *sessionUC) Load(ctx context.Context, userID string) (*SessionState, error) {
	msgs, err := u.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(msgs) == 0 {
		w, err := u.seedWelcome(ctx, userID, 0)
		if err != nil {
			return nil, err
		}
		msgs = []model.Message{*w}
	}

	ledger, caps, err := u.quota.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SessionState{
		Messages:       msgs,
		UserTurns:      ledger.UserTurns,
		VoiceUserTurns: ledger.VoiceUserTurns,
		Caps:           caps,
	}, nil
}

func (u *sessionUC) Append(ctx context.Context, userID string, text string, isUser bool) (*model.Message, error) {
	if text == "" {
		return nil, domain.ErrInvalidArgument
	}
	last, err := u.messages.LastID(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := model.NewMessage(model.NextMessageID(last), text, isUser)
	if err := u.messages.Append(ctx, userID, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *sessionUC) DeleteAll(ctx context.Context, userID string) (*SessionState, error) {
	if _, err := u.messages.DeleteAllByUser(ctx, userID); err != nil {
		return nil, err
	}
	w, err := u.seedWelcome(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	ledger, caps, err := u.quota.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SessionState{
		Messages:       []model.Message{*w},
		UserTurns:      ledger.UserTurns,
		VoiceUserTurns: ledger.VoiceUserTurns,
		Caps:           caps,
	}, nil
}

func (u *sessionUC) seedWelcome(ctx context.Context, userID string, lastID int64) (*model.Message, error) {
	mode := model.ChatModeProfessional
	var lastActive time.Time
	s, err := u.settings.Find(ctx, userID)
	switch {
	case err == nil:
		mode = s.ChatMode
		lastActive = s.LastActiveAt
	case errors.Is(err, domain.ErrNotFound):
		// First visit, defaults apply.
	default:
		return nil, err
	}

	w := model.NewMessage(model.NextMessageID(lastID), welcomeText(mode, lastActive, u.now()), false)
	if err := u.messages.Append(ctx, userID, w); err != nil {
		return nil, err
	}
	return w, nil
}
