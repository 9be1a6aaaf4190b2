package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/DanielPopoola/ficmart-newsletter/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
)

type SubscriptionService struct {
	subscriberRepo *postgres.SubscriberRepository
	emailClient    application.EmailClient
	baseURL        string
	logger         *slog.Logger
}

func NewSubscriptionService(
	subscriberRepo *postgres.SubscriberRepository,
	emailClient application.EmailClient,
	baseURL string,
	logger *slog.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subscriberRepo: subscriberRepo,
		emailClient:    emailClient,
		baseURL:        baseURL,
		logger:         logger,
	}
}

// Subscribe stores a pending subscriber and emails them a confirmation
// link. They only start receiving issues after following the link.
func (s *SubscriptionService) Subscribe(ctx context.Context, name, rawEmail string) error {
	email, err := domain.ParseSubscriberEmail(rawEmail)
	if err != nil {
		return application.NewInvalidInputError(err)
	}

	sub, err := domain.NewSubscriber(email, name)
	if err != nil {
		return application.NewInvalidInputError(err)
	}

	token := uuid.New().String()

	if err := s.subscriberRepo.Insert(ctx, sub, token); err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeDuplicateSubscriber) {
			return application.NewConflictError(err)
		}
		return application.NewInternalError(err)
	}

	confirmationLink := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)
	htmlBody := fmt.Sprintf(
		"Welcome to the FicMart newsletter!<br />Click <a href=\"%s\">here</a> to confirm your subscription.",
		confirmationLink,
	)
	textBody := fmt.Sprintf(
		"Welcome to the FicMart newsletter!\nVisit %s to confirm your subscription.",
		confirmationLink,
	)

	if err := s.emailClient.Send(ctx, email.String(), "Please confirm your subscription", htmlBody, textBody); err != nil {
		return application.NewInternalError(err)
	}

	s.logger.Info("subscriber stored, confirmation email sent",
		"subscriber_id", sub.ID,
	)

	return nil
}

// Confirm flips the subscriber behind the token to confirmed.
func (s *SubscriptionService) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return application.NewInvalidInputError(domain.NewMissingRequiredFieldError("subscription_token"))
	}

	if err := s.subscriberRepo.ConfirmByToken(ctx, token); err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeUnknownToken) {
			return application.NewUnauthorizedError(err)
		}
		return application.NewInternalError(err)
	}

	return nil
}
