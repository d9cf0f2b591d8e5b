// File: internal/usecase/waitlist_uc.go
package usecase

import (
	"context"

	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/repository"
)

// Compile-time check
var _ WaitlistUseCase = (*waitlistUC)(nil)

type WaitlistUseCase interface {
	// Join validates and records a signup. Duplicate emails come back as
	// domain.ErrAlreadyExists, missing fields as domain.ErrInvalidArgument.
	Join(ctx context.Context, name, email string) (*model.WaitlistEntry, error)
	Count(ctx context.Context) (int64, error)
}

type waitlistUC struct {
	waitlist repository.WaitlistRepository
}

func NewWaitlistUseCase(waitlist repository.WaitlistRepository) *waitlistUC {
	return &waitlistUC{waitlist: waitlist}
}

func (u *waitlistUC) Join(ctx context.Context, name, email string) (*model.WaitlistEntry, error) {
	e, err := model.NewWaitlistEntry(name, email)
	if err != nil {
		return nil, err
	}
	if err := u.waitlist.Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (u *waitlistUC) Count(ctx context.Context) (int64, error) {
	return u.waitlist.Count(ctx)
}
