package model

import "time"

type ChatMode string

const (
	// ChatModeProfessional is the direct, honest companion persona backed by
	// the primary completion credential.
	ChatModeProfessional ChatMode = "professional"
	// ChatModeBestie is the casual best-friend persona backed by the demo
	// credential.
	ChatModeBestie ChatMode = "bestie"
)

func (m ChatMode) Valid() bool {
	return m == ChatModeProfessional || m == ChatModeBestie
}

// UserSettings are the per-user preferences persisted alongside the quota
// ledger so they follow the user across devices.
type UserSettings struct {
	UserID        string
	ChatMode      ChatMode
	VoiceEnabled  bool
	SelectedVoice string
	LastActiveAt  time.Time
	UpdatedAt     time.Time
}

func DefaultSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:   userID,
		ChatMode: ChatModeProfessional,
	}
}
