// File: internal/infra/db/postgres/postgres_message_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

// MessageRepo is the append-only transcript store. Rows are keyed by
// (user_id, id); reads always re-sort by id so out-of-order appends from a
// second device still render in send order.
type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Append(ctx context.Context, userID string, m *model.Message) error {
	const q = `
INSERT INTO messages (user_id, id, text, is_user, created_at)
VALUES ($1, $2, $3, $4, COALESCE($5, NOW()));`
	if _, err := r.pool.Exec(ctx, q, userID, m.ID, m.Text, m.IsUser, m.CreatedAt); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (r *MessageRepo) ListByUser(ctx context.Context, userID string) ([]model.Message, error) {
	const q = `
SELECT id, text, is_user, created_at
FROM messages WHERE user_id = $1
ORDER BY id ASC;`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]model.Message, 0, 32)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.IsUser, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MessageRepo) LastID(ctx context.Context, userID string) (int64, error) {
	const q = `SELECT COALESCE(MAX(id), 0) FROM messages WHERE user_id = $1;`
	var last int64
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&last); err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("last message id: %w", err)
	}
	return last, nil
}

func (r *MessageRepo) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM messages WHERE user_id = $1;`
	tag, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *MessageRepo) CountAll(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM messages;`
	var n int64
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
