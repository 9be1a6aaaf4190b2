package postgres

import (
	"context"
	"fmt"

	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
)

type SubscriberRepository struct {
	q Executor
}

func NewSubscriberRepository(db *DB) *SubscriberRepository {
	return &SubscriberRepository{q: db.Pool}
}

func (r *SubscriberRepository) Insert(ctx context.Context, sub *domain.Subscriber, confirmationToken string) error {
	query := `
		INSERT INTO subscriptions (id, email, name, status, confirmation_token, subscribed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.Exec(ctx, query,
		sub.ID,
		sub.Email.String(),
		sub.Name,
		sub.Status,
		confirmationToken,
		sub.SubscribedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicateSubscriberError(sub.Email.String())
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}

	return nil
}

// ConfirmByToken flips the matching subscriber to confirmed. An unknown
// token is a client error, not a storage failure.
func (r *SubscriberRepository) ConfirmByToken(ctx context.Context, token string) error {
	query := `
		UPDATE subscriptions
		SET status = $1
		WHERE confirmation_token = $2
	`

	tag, err := r.q.Exec(ctx, query, domain.StatusConfirmed, token)
	if err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewUnknownTokenError()
	}

	return nil
}

func (r *SubscriberRepository) CountConfirmed(ctx context.Context) (int64, error) {
	query := `SELECT count(*) FROM subscriptions WHERE status = $1`

	var n int64
	if err := r.q.QueryRow(ctx, query, domain.StatusConfirmed).Scan(&n); err != nil {
		return 0, fmt.Errorf("count confirmed subscribers: %w", err)
	}

	return n, nil
}
