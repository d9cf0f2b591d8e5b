package model

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"fedup-chat/internal/domain"
)

// WaitlistEntry is one signup on the launch waitlist. Email is unique.
type WaitlistEntry struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

func NewWaitlistEntry(name, email string) (*WaitlistEntry, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	return &WaitlistEntry{
		ID:        ulid.Make().String(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}
