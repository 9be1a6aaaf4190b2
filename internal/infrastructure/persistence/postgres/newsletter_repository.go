package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type NewsletterRepository struct {
	q Executor
}

func NewNewsletterRepository(db *DB) *NewsletterRepository {
	return &NewsletterRepository{q: db.Pool}
}

// WithTx returns a copy of the repository that runs its statements on the
// given transaction instead of the pool.
func (r *NewsletterRepository) WithTx(tx pgx.Tx) *NewsletterRepository {
	return &NewsletterRepository{q: tx}
}

func (r *NewsletterRepository) InsertIssue(ctx context.Context, issue *domain.NewsletterIssue) error {
	query := `
		INSERT INTO newsletter_issues (id, title, text_content, html_content, published_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.Exec(ctx, query,
		issue.ID,
		issue.Title,
		issue.TextContent,
		issue.HTMLContent,
		issue.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert newsletter issue: %w", err)
	}

	return nil
}

// EnqueueDeliveryTasks inserts one delivery-queue row per confirmed
// subscriber. The recipient set is selected at the caller's transactional
// snapshot, so a committed issue always carries the queue rows for exactly
// the subscribers that were confirmed when it was claimed.
func (r *NewsletterRepository) EnqueueDeliveryTasks(ctx context.Context, issueID uuid.UUID) (int64, error) {
	query := `
		INSERT INTO issue_delivery_queue (newsletter_issue_id, subscriber_email, enqueued_at)
		SELECT $1, email, now()
		FROM subscriptions
		WHERE status = $2
	`

	tag, err := r.q.Exec(ctx, query, issueID, domain.StatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("enqueue delivery tasks: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *NewsletterRepository) GetIssue(ctx context.Context, id uuid.UUID) (*domain.NewsletterIssue, error) {
	query := `
		SELECT id, title, text_content, html_content, published_at
		FROM newsletter_issues
		WHERE id = $1
	`

	var issue domain.NewsletterIssue
	err := r.q.QueryRow(ctx, query, id).Scan(
		&issue.ID,
		&issue.Title,
		&issue.TextContent,
		&issue.HTMLContent,
		&issue.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("newsletter issue %s not found", id)
		}
		return nil, fmt.Errorf("get newsletter issue: %w", err)
	}

	return &issue, nil
}
