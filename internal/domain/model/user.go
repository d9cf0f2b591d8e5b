package model

import (
	"fedup-chat/internal/domain"
)

// User is the authenticated profile handed to us by the identity provider.
// Only Google sign-ins are accepted; anything else is treated as anonymous.
type User struct {
	UID      string
	Name     string
	Email    string
	PhotoURL string
	Provider string
}

func NewUser(uid, name, email, photoURL, provider string) (*User, error) {
	if uid == "" {
		return nil, domain.ErrInvalidArgument
	}
	if provider != "google" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{UID: uid, Name: name, Email: email, PhotoURL: photoURL, Provider: provider}, nil
}

func (u *User) IsZero() bool { return u == nil || u.UID == "" }
