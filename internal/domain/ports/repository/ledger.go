package repository

import (
	"context"

	"fedup-chat/internal/domain/model"
)

// LedgerRepository persists per-user quota ledgers.
//
// Update runs fn against the current ledger inside a storage-level
// transaction that holds the row lock for the duration of the call, so a
// read-check-increment sequence in fn is atomic across devices. If fn
// returns an error the ledger is left untouched and the error is passed
// through.
type LedgerRepository interface {
	Find(ctx context.Context, userID string) (*model.QuotaLedger, error)
	Update(ctx context.Context, userID string, fn func(*model.QuotaLedger) error) (*model.QuotaLedger, error)
}
