package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DeliveryTask is one pending email send for a published issue.
type DeliveryTask struct {
	NewsletterIssueID uuid.UUID
	SubscriberEmail   string
}

// DeliveryQueueRepository hands out queue rows to the delivery worker.
// Each task stays locked by its dequeue transaction until the worker
// completes or abandons it, so multiple worker instances can drain the
// queue without stepping on each other.
type DeliveryQueueRepository struct {
	db *DB
}

func NewDeliveryQueueRepository(db *DB) *DeliveryQueueRepository {
	return &DeliveryQueueRepository{db: db}
}

// DequeueTask picks one available queue row and locks it. Returns a nil
// task when the queue is empty. The returned transaction must be closed by
// CompleteTask or AbandonTask.
func (r *DeliveryQueueRepository) DequeueTask(ctx context.Context) (pgx.Tx, *DeliveryTask, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin dequeue transaction: %w", err)
	}

	query := `
		SELECT newsletter_issue_id, subscriber_email
		FROM issue_delivery_queue
		FOR UPDATE
		SKIP LOCKED
		LIMIT 1
	`

	var task DeliveryTask
	err = tx.QueryRow(ctx, query).Scan(&task.NewsletterIssueID, &task.SubscriberEmail)
	if err != nil {
		_ = tx.Rollback(ctx)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("dequeue delivery task: %w", err)
	}

	return tx, &task, nil
}

// CompleteTask removes the delivered row and commits the dequeue
// transaction.
func (r *DeliveryQueueRepository) CompleteTask(ctx context.Context, tx pgx.Tx, task *DeliveryTask) error {
	query := `
		DELETE FROM issue_delivery_queue
		WHERE newsletter_issue_id = $1 AND subscriber_email = $2
	`

	if _, err := tx.Exec(ctx, query, task.NewsletterIssueID, task.SubscriberEmail); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("delete delivery task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delivery task: %w", err)
	}

	return nil
}

// AbandonTask releases the row lock without removing the task, leaving it
// for a later attempt.
func (r *DeliveryQueueRepository) AbandonTask(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx)
}
