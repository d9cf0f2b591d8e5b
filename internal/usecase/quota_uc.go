// File: internal/usecase/quota_uc.go
package usecase

import (
	"context"
	"time"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/repository"
)

// Compile-time check
var _ QuotaUseCase = (*quotaUC)(nil)

// ConsumeOutcome is the quota gate's verdict for one turn.
type ConsumeOutcome int

const (
	Accepted ConsumeOutcome = iota
	RejectedTextCap
	RejectedVoiceCap
)

// ConsumeResult carries the verdict plus the post-decision counters so
// callers can surface remaining quota without a second read.
type ConsumeResult struct {
	Outcome        ConsumeOutcome
	UserTurns      int
	VoiceUserTurns int
	Caps           model.QuotaCaps
}

type QuotaUseCase interface {
	// TryConsume atomically checks and increments the user's counters for
	// one turn. A rejection writes nothing.
	TryConsume(ctx context.Context, userID string, isVoice bool) (ConsumeResult, error)
	Get(ctx context.Context, userID string) (*model.QuotaLedger, model.QuotaCaps, error)
	// RaiseCaps sets per-user overrides. Zero leaves the plan default.
	RaiseCaps(ctx context.Context, userID string, textCap, voiceCap int) (*model.QuotaLedger, error)
}

type quotaUC struct {
	ledgers  repository.LedgerRepository
	defaults model.QuotaCaps
	now      func() time.Time
}

func NewQuotaUseCase(ledgers repository.LedgerRepository, defaults model.QuotaCaps) *quotaUC {
	return &quotaUC{ledgers: ledgers, defaults: defaults, now: time.Now}
}

func (u *quotaUC) TryConsume(ctx context.Context, userID string, isVoice bool) (ConsumeResult, error) {
	var res ConsumeResult
	_, err := u.ledgers.Update(ctx, userID, func(l *model.QuotaLedger) error {
		l.Rollover(u.now())
		caps := l.Caps(u.defaults)
		res.Caps = caps

		// Every voice turn is also a text turn, so the text cap gates both.
		if l.UserTurns >= caps.TextTurns {
			res.Outcome = RejectedTextCap
			res.UserTurns, res.VoiceUserTurns = l.UserTurns, l.VoiceUserTurns
			return domain.ErrTextCapReached
		}
		if isVoice && l.VoiceUserTurns >= caps.VoiceTurns {
			res.Outcome = RejectedVoiceCap
			res.UserTurns, res.VoiceUserTurns = l.UserTurns, l.VoiceUserTurns
			return domain.ErrVoiceCapReached
		}

		l.UserTurns++
		if isVoice {
			l.VoiceUserTurns++
		}
		l.UpdatedAt = u.now()
		res.Outcome = Accepted
		res.UserTurns, res.VoiceUserTurns = l.UserTurns, l.VoiceUserTurns
		return nil
	})
	if err != nil {
		if err == domain.ErrTextCapReached || err == domain.ErrVoiceCapReached {
			// The rejection is the result, not a failure.
			return res, nil
		}
		return ConsumeResult{}, err
	}
	return res, nil
}

func (u *quotaUC) Get(ctx context.Context, userID string) (*model.QuotaLedger, model.QuotaCaps, error) {
	l, err := u.ledgers.Find(ctx, userID)
	if err != nil {
		return nil, model.QuotaCaps{}, err
	}
	l.Rollover(u.now())
	return l, l.Caps(u.defaults), nil
}

func (u *quotaUC) RaiseCaps(ctx context.Context, userID string, textCap, voiceCap int) (*model.QuotaLedger, error) {
	if textCap < 0 || voiceCap < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.ledgers.Update(ctx, userID, func(l *model.QuotaLedger) error {
		l.Rollover(u.now())
		if textCap > 0 {
			l.TextCapOverride = textCap
		}
		if voiceCap > 0 {
			l.VoiceCapOverride = voiceCap
		}
		l.UpdatedAt = u.now()
		return nil
	})
}
