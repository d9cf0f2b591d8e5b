package repository

import (
	"context"

	"fedup-chat/internal/domain/model"
)

// WaitlistRepository stores signups. Add returns domain.ErrAlreadyExists
// when the email is already registered.
type WaitlistRepository interface {
	Add(ctx context.Context, e *model.WaitlistEntry) error
	Count(ctx context.Context) (int64, error)
}
