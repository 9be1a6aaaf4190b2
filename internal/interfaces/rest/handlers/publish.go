package handlers

import (
	"errors"
	"net/http"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/application/services"
	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/DanielPopoola/ficmart-newsletter/internal/interfaces/rest"
	"github.com/DanielPopoola/ficmart-newsletter/internal/interfaces/rest/middleware"
)

type publishIssueRequest struct {
	Title          string `validate:"required"`
	TextContent    string `validate:"required"`
	HTMLContent    string `validate:"required"`
	IdempotencyKey string `validate:"required"`
}

// HandlePublishIssue accepts a form-encoded newsletter issue and publishes
// it at most once per (user, idempotency key). A duplicate submission gets
// the stored response replayed byte for byte.
func (h *Handlers) HandlePublishIssue(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		rest.WriteError(w, application.NewUnauthorizedError(errors.New("no authenticated user")), h.logger)
		return
	}

	if err := r.ParseForm(); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	req := publishIssueRequest{
		Title:          r.PostFormValue("title"),
		TextContent:    r.PostFormValue("text_content"),
		HTMLContent:    r.PostFormValue("html_content"),
		IdempotencyKey: r.PostFormValue("idempotency_key"),
	}
	if req.IdempotencyKey == "" {
		// Clients may also supply the token as a header.
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}

	if err := h.validate.Struct(req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	// The key is validated before any transaction opens; a malformed key
	// never touches the ledger.
	key, err := domain.ParseIdempotencyKey(req.IdempotencyKey)
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	cmd := services.PublishCommand{
		Title:       req.Title,
		TextContent: req.TextContent,
		HTMLContent: req.HTMLContent,
	}

	resp, err := h.publishService.Publish(r.Context(), userID, key, cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteResponse(w, resp)
}
