package repository

import (
	"context"

	"fedup-chat/internal/domain/model"
)

// MessageRepository is the append-only per-user transcript store. ListByUser
// returns messages in ascending id order regardless of insertion order.
type MessageRepository interface {
	Append(ctx context.Context, userID string, m *model.Message) error
	ListByUser(ctx context.Context, userID string) ([]model.Message, error)
	LastID(ctx context.Context, userID string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}
