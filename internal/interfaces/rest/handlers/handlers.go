package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application/services"
	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
)

type PublishService interface {
	Publish(ctx context.Context, userID uuid.UUID, key domain.IdempotencyKey, cmd services.PublishCommand) (*domain.Response, error)
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, name, email string) error
	Confirm(ctx context.Context, token string) error
}

type Handlers struct {
	publishService      PublishService
	subscriptionService SubscriptionService
	validate            *validator.Validate
	logger              *slog.Logger
}

func NewHandlers(
	publishService PublishService,
	subscriptionService SubscriptionService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		publishService:      publishService,
		subscriptionService: subscriptionService,
		validate:            validator.New(),
		logger:              logger,
	}
}

// RegisterRoutes wires the public routes. Admin routes are registered
// separately so the auth middleware can wrap just those.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health_check", h.HandleHealthCheck)
	mux.HandleFunc("POST /subscriptions", h.HandleSubscribe)
	mux.HandleFunc("GET /subscriptions/confirm", h.HandleConfirm)
}

// AdminRoutes returns the handler for routes that require an
// authenticated user.
func (h *Handlers) AdminRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/newsletters", h.HandlePublishIssue)
	return mux
}
