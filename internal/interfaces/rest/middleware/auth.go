package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/interfaces/rest"
	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Authenticate guards the admin routes. Session management lives in the
// identity-aware proxy in front of this service; by the time a request
// gets here the proxy has already authenticated it and stamped the user's
// id on the X-User-Id header.
func Authenticate(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-Id")
			if raw == "" {
				rest.WriteError(w, application.NewUnauthorizedError(errors.New("missing X-User-Id header")), logger)
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil {
				rest.WriteError(w, application.NewUnauthorizedError(errors.New("X-User-Id is not a valid UUID")), logger)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id stored by Authenticate.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
