package model

import (
	"time"
)

// QuotaCaps are the plan limits applied to a ledger when it carries no
// per-user override.
type QuotaCaps struct {
	TextTurns  int
	VoiceTurns int
}

// QuotaLedger tracks how many turns a user has consumed in the current
// monthly period. Counters only ever move forward within a period; deleting
// chat history never touches them. Overrides let support raise a cap for a
// single user.
type QuotaLedger struct {
	UserID            string
	Period            string // "2006-01"
	UserTurns         int
	VoiceUserTurns    int
	TextCapOverride   int // 0 means plan default
	VoiceCapOverride  int
	UpdatedAt         time.Time
}

func NewQuotaLedger(userID string, now time.Time) *QuotaLedger {
	return &QuotaLedger{
		UserID:    userID,
		Period:    PeriodOf(now),
		UpdatedAt: now,
	}
}

// PeriodOf formats the monthly rollover key for a point in time.
func PeriodOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Caps resolves the effective limits, preferring per-user overrides.
func (l *QuotaLedger) Caps(defaults QuotaCaps) QuotaCaps {
	caps := defaults
	if l.TextCapOverride > 0 {
		caps.TextTurns = l.TextCapOverride
	}
	if l.VoiceCapOverride > 0 {
		caps.VoiceTurns = l.VoiceCapOverride
	}
	return caps
}

// Rollover resets the counters when the ledger belongs to an earlier period.
// Overrides survive a rollover; they are granted per user, not per month.
func (l *QuotaLedger) Rollover(now time.Time) {
	p := PeriodOf(now)
	if l.Period == p {
		return
	}
	l.Period = p
	l.UserTurns = 0
	l.VoiceUserTurns = 0
}

// Remaining reports how many text turns are left under the given defaults.
func (l *QuotaLedger) Remaining(defaults QuotaCaps) (text, voice int) {
	caps := l.Caps(defaults)
	text = caps.TextTurns - l.UserTurns
	voice = caps.VoiceTurns - l.VoiceUserTurns
	if text < 0 {
		text = 0
	}
	if voice < 0 {
		voice = 0
	}
	return text, voice
}
