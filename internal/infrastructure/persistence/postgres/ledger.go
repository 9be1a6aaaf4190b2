package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IdempotencyLedger owns the idempotency table. A row per (user, key) is
// the only concurrency-control primitive: claiming a key inserts the row
// inside a transaction that the claim holder keeps open across the whole
// workflow, so a concurrent duplicate insert blocks on the row lock until
// the holder commits or rolls back.
type IdempotencyLedger struct {
	db *DB
}

func NewIdempotencyLedger(db *DB) *IdempotencyLedger {
	return &IdempotencyLedger{db: db}
}

// Claim is the exclusive right to execute a (user, key) operation once.
// It carries the open transaction; business writes must go through it so
// that a failure anywhere rolls back the claim row together with them.
type Claim struct {
	tx pgx.Tx
}

// Tx exposes the claim's transaction for workflow writes.
func (c *Claim) Tx() pgx.Tx {
	return c.tx
}

// Rollback aborts the claim. The claim row disappears with the rest of the
// transaction and the key becomes claimable again. Safe to call after a
// successful SaveResponse; it is a no-op on a committed transaction.
func (c *Claim) Rollback(ctx context.Context) {
	_ = c.tx.Rollback(ctx)
}

// TryProcessing attempts to claim (userID, key). Exactly one of the return
// values is set: a live Claim when the caller won and must run the
// workflow, or the previously committed response when another request
// already completed it.
//
// If another request is mid-flight for the same pair, the insert blocks on
// its row lock. After that request commits we observe its snapshot; after
// it rolls back the insert succeeds and we win a fresh claim.
func (l *IdempotencyLedger) TryProcessing(ctx context.Context, userID uuid.UUID, key domain.IdempotencyKey) (*Claim, *domain.Response, error) {
	tx, err := l.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin claim transaction: %w", err)
	}

	query := `
		INSERT INTO idempotency (user_id, idempotency_key, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT DO NOTHING
	`

	tag, err := tx.Exec(ctx, query, userID, key.String())
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, nil, fmt.Errorf("claim idempotency key: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return &Claim{tx: tx}, nil, nil
	}

	// Lost the race. The winner has committed, so its snapshot must be
	// visible by now; the probe transaction has nothing to keep.
	_ = tx.Rollback(ctx)

	saved, err := l.getSavedResponse(ctx, userID, key)
	if err != nil {
		return nil, nil, err
	}
	if saved == nil {
		return nil, nil, fmt.Errorf("idempotency row for key %q exists without a saved response", key.String())
	}

	return nil, saved, nil
}

// SaveResponse snapshots the produced response through the claim's open
// transaction and commits it. The commit durably completes the ledger
// entry and releases the row lock, unblocking concurrent duplicates.
func (l *IdempotencyLedger) SaveResponse(ctx context.Context, claim *Claim, userID uuid.UUID, key domain.IdempotencyKey, resp *domain.Response) error {
	statusCode, headers, body := encodeResponse(resp)

	query := `
		UPDATE idempotency
		SET response_status_code = $3,
		    response_headers = $4,
		    response_body = $5
		WHERE user_id = $1 AND idempotency_key = $2
	`

	tag, err := claim.tx.Exec(ctx, query, userID, key.String(), statusCode, headers, body)
	if err != nil {
		_ = claim.tx.Rollback(ctx)
		return fmt.Errorf("store response snapshot: %w", err)
	}
	if tag.RowsAffected() != 1 {
		_ = claim.tx.Rollback(ctx)
		return fmt.Errorf("expected to update one idempotency row, updated %d", tag.RowsAffected())
	}

	if err := claim.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit idempotency claim: %w", err)
	}

	return nil
}

func (l *IdempotencyLedger) getSavedResponse(ctx context.Context, userID uuid.UUID, key domain.IdempotencyKey) (*domain.Response, error) {
	query := `
		SELECT response_status_code, response_headers, response_body
		FROM idempotency
		WHERE user_id = $1 AND idempotency_key = $2
	`

	var statusCode *int16
	var headers []headerPairRecord
	var body []byte

	err := l.db.Pool.QueryRow(ctx, query, userID, key.String()).Scan(&statusCode, &headers, &body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read saved response: %w", err)
	}

	if statusCode == nil {
		return nil, fmt.Errorf("idempotency row for key %q has no status code", key.String())
	}

	return decodeResponse(*statusCode, headers, body)
}
