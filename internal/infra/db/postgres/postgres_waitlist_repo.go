// File: internal/infra/db/postgres/postgres_waitlist_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/repository"
)

var _ repository.WaitlistRepository = (*WaitlistRepo)(nil)

type WaitlistRepo struct {
	pool *pgxpool.Pool
}

func NewWaitlistRepo(pool *pgxpool.Pool) *WaitlistRepo {
	return &WaitlistRepo{pool: pool}
}

func (r *WaitlistRepo) Add(ctx context.Context, e *model.WaitlistEntry) error {
	const q = `
INSERT INTO waitlist (id, name, email, created_at)
VALUES ($1, $2, $3, $4);`
	if _, err := r.pool.Exec(ctx, q, e.ID, e.Name, e.Email, e.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("add waitlist entry: %w", err)
	}
	return nil
}

func (r *WaitlistRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM waitlist;`
	var n int64
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count waitlist: %w", err)
	}
	return n, nil
}
