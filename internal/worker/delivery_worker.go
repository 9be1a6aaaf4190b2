package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/infrastructure/persistence/postgres"
	"github.com/jackc/pgx/v5"
)

// DeliveryWorker drains the issue delivery queue: one locked task at a
// time, send the email, delete the row, commit. A failed send rolls the
// task back into the queue for a later tick, so delivery is at-least-once
// and retrying is entirely this worker's problem.
type DeliveryWorker struct {
	queueRepo      *postgres.DeliveryQueueRepository
	newsletterRepo *postgres.NewsletterRepository
	emailClient    application.EmailClient
	interval       time.Duration
	batchSize      int
	logger         *slog.Logger
}

func NewDeliveryWorker(
	queueRepo *postgres.DeliveryQueueRepository,
	newsletterRepo *postgres.NewsletterRepository,
	emailClient application.EmailClient,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *DeliveryWorker {
	return &DeliveryWorker{
		queueRepo:      queueRepo,
		newsletterRepo: newsletterRepo,
		emailClient:    emailClient,
		interval:       interval,
		batchSize:      batchSize,
		logger:         logger,
	}
}

func (w *DeliveryWorker) Start(ctx context.Context) {
	w.logger.Info("delivery worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("delivery worker stopping")
			return
		case <-ticker.C:
			if err := w.DrainBatch(ctx); err != nil {
				w.logger.Error("delivery batch failed", "error", err)
			}
		}
	}
}

// DrainBatch processes up to batchSize queued deliveries and returns on
// the first empty dequeue. A task whose send fails keeps its dequeue
// transaction open until the batch ends: the held row lock makes the
// unordered SKIP LOCKED dequeue pass over it, so one unreachable
// recipient cannot be re-selected over and over and starve the rest of
// the queue within the tick. The batch holds at most batchSize
// connections, so batchSize must not exceed the pool size.
func (w *DeliveryWorker) DrainBatch(ctx context.Context) error {
	var delivered int
	var failed []pgx.Tx

	defer func() {
		// Releasing the locks leaves the failed rows queued for a
		// later tick.
		for _, tx := range failed {
			w.queueRepo.AbandonTask(ctx, tx)
		}
	}()

	for i := 0; i < w.batchSize; i++ {
		done, failedTx, err := w.deliverOne(ctx)
		if err != nil {
			return err
		}
		if failedTx != nil {
			failed = append(failed, failedTx)
			continue
		}
		if !done {
			break
		}
		delivered++
	}

	if delivered > 0 {
		w.logger.Info("delivered newsletter emails", "count", delivered)
	}

	return nil
}

// deliverOne attempts one queued delivery. It reports (true, nil, nil)
// on a completed send, (false, nil, nil) on an empty queue, and a
// non-nil transaction when the send failed and the task's row lock must
// be held until the batch ends.
func (w *DeliveryWorker) deliverOne(ctx context.Context) (bool, pgx.Tx, error) {
	tx, task, err := w.queueRepo.DequeueTask(ctx)
	if err != nil {
		return false, nil, err
	}
	if task == nil {
		return false, nil, nil
	}

	issue, err := w.newsletterRepo.WithTx(tx).GetIssue(ctx, task.NewsletterIssueID)
	if err != nil {
		w.queueRepo.AbandonTask(ctx, tx)
		return false, nil, err
	}

	err = w.emailClient.Send(ctx, task.SubscriberEmail, issue.Title, issue.HTMLContent, issue.TextContent)
	if err != nil {
		w.logger.Error("newsletter delivery failed",
			"issue_id", task.NewsletterIssueID,
			"error", err,
		)
		return false, tx, nil
	}

	if err := w.queueRepo.CompleteTask(ctx, tx, task); err != nil {
		return false, nil, err
	}

	return true, nil, nil
}
