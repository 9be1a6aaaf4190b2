package services

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/DanielPopoola/ficmart-newsletter/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
)

type PublishCommand struct {
	Title       string
	TextContent string
	HTMLContent string
}

// PublishService runs the idempotent publish workflow: claim the
// (user, key) pair, persist the issue and its delivery fan-out, snapshot
// the response, commit. Everything after a won claim goes through the
// claim's transaction, so no partial state ever becomes visible.
type PublishService struct {
	ledger         *postgres.IdempotencyLedger
	newsletterRepo *postgres.NewsletterRepository
	logger         *slog.Logger
}

func NewPublishService(
	ledger *postgres.IdempotencyLedger,
	newsletterRepo *postgres.NewsletterRepository,
	logger *slog.Logger,
) *PublishService {
	return &PublishService{
		ledger:         ledger,
		newsletterRepo: newsletterRepo,
		logger:         logger,
	}
}

func (s *PublishService) Publish(ctx context.Context, userID uuid.UUID, key domain.IdempotencyKey, cmd PublishCommand) (*domain.Response, error) {
	// Payload validation happens before any transaction opens.
	issue, err := domain.NewNewsletterIssue(cmd.Title, cmd.TextContent, cmd.HTMLContent)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	// The business effect must happen exactly once even if the caller
	// stops listening mid-flight; the claim transaction does not depend
	// on the request socket.
	ctx = context.WithoutCancel(ctx)

	claim, saved, err := s.ledger.TryProcessing(ctx, userID, key)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	if saved != nil {
		s.logger.Info("replaying saved response",
			"user_id", userID,
			"idempotency_key", key.String(),
		)
		return saved, nil
	}

	// No-op once SaveResponse has committed; before that, any early
	// return removes the claim row and the key becomes claimable again.
	defer claim.Rollback(ctx)

	txRepo := s.newsletterRepo.WithTx(claim.Tx())

	if err := txRepo.InsertIssue(ctx, issue); err != nil {
		return nil, application.NewInternalError(err)
	}

	enqueued, err := txRepo.EnqueueDeliveryTasks(ctx, issue.ID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	resp := domain.SeeOtherResponse("/admin/newsletters")

	if err := s.ledger.SaveResponse(ctx, claim, userID, key, resp); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("newsletter issue published",
		"issue_id", issue.ID,
		"user_id", userID,
		"recipients_enqueued", enqueued,
	)

	return resp, nil
}
