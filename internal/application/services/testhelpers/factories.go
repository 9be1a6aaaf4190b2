package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application/services"
	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/DanielPopoola/ficmart-newsletter/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// InsertSubscriber writes a subscriber row directly, bypassing the
// subscription flow, so publish tests can control the confirmed set.
func InsertSubscriber(t *testing.T, ctx context.Context, db *postgres.DB, email string, status domain.SubscriberStatus) {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO subscriptions (id, email, name, status, confirmation_token, subscribed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), email, "Test Subscriber", status, uuid.New().String(), time.Now().UTC())
	require.NoError(t, err)
}

func InsertConfirmedSubscriber(t *testing.T, ctx context.Context, db *postgres.DB, email string) {
	InsertSubscriber(t, ctx, db, email, domain.StatusConfirmed)
}

// DefaultPublishCommand returns a valid publish command for testing
func DefaultPublishCommand() services.PublishCommand {
	return services.PublishCommand{
		Title:       "Issue #1: The FicMart Gazette",
		TextContent: "Plain text body of the issue.",
		HTMLContent: "<p>HTML body of the issue.</p>",
	}
}

// CountRows counts the rows of a known table. The table name is always a
// compile-time constant in tests.
func CountRows(t *testing.T, ctx context.Context, db *postgres.DB, table string) int64 {
	var n int64
	err := db.Pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}
