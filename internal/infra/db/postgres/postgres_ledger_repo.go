// File: internal/infra/db/postgres/postgres_ledger_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fedup-chat/internal/domain/model"
	"fedup-chat/internal/domain/ports/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo persists quota ledgers. Update locks the row with
// SELECT ... FOR UPDATE so the read-check-increment sequence is atomic even
// when two devices send at the same instant.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

const ledgerColumns = `user_id, period, user_turns, voice_user_turns, text_cap_override, voice_cap_override, updated_at`

func scanLedger(row pgx.Row) (*model.QuotaLedger, error) {
	var l model.QuotaLedger
	err := row.Scan(&l.UserID, &l.Period, &l.UserTurns, &l.VoiceUserTurns,
		&l.TextCapOverride, &l.VoiceCapOverride, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LedgerRepo) Find(ctx context.Context, userID string) (*model.QuotaLedger, error) {
	const q = `SELECT ` + ledgerColumns + ` FROM quota_ledgers WHERE user_id = $1;`
	l, err := scanLedger(r.pool.QueryRow(ctx, q, userID))
	if err == pgx.ErrNoRows {
		// A user with no ledger yet has consumed nothing.
		return model.NewQuotaLedger(userID, time.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ledger: %w", err)
	}
	return l, nil
}

func (r *LedgerRepo) Update(ctx context.Context, userID string, fn func(*model.QuotaLedger) error) (*model.QuotaLedger, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Ensure the row exists before locking it; first message from a user
	// creates the ledger.
	const ensure = `
INSERT INTO quota_ledgers (user_id, period, user_turns, voice_user_turns, text_cap_override, voice_cap_override, updated_at)
VALUES ($1, $2, 0, 0, 0, 0, NOW())
ON CONFLICT (user_id) DO NOTHING;`
	if _, err := tx.Exec(ctx, ensure, userID, model.PeriodOf(time.Now())); err != nil {
		return nil, fmt.Errorf("ensure ledger: %w", err)
	}

	const lock = `SELECT ` + ledgerColumns + ` FROM quota_ledgers WHERE user_id = $1 FOR UPDATE;`
	l, err := scanLedger(tx.QueryRow(ctx, lock, userID))
	if err != nil {
		return nil, fmt.Errorf("lock ledger: %w", err)
	}

	if err := fn(l); err != nil {
		// No write on rejection: rollback leaves the stored counters as-is.
		return nil, err
	}

	const write = `
UPDATE quota_ledgers
SET period = $2, user_turns = $3, voice_user_turns = $4,
    text_cap_override = $5, voice_cap_override = $6, updated_at = NOW()
WHERE user_id = $1;`
	if _, err := tx.Exec(ctx, write, l.UserID, l.Period, l.UserTurns, l.VoiceUserTurns,
		l.TextCapOverride, l.VoiceCapOverride); err != nil {
		return nil, fmt.Errorf("write ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ledger: %w", err)
	}
	l.UpdatedAt = time.Now()
	return l, nil
}
