package handlers

import (
	"net/http"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/interfaces/rest"
)

type subscribeRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

func (h *Handlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	req := subscribeRequest{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	}

	if err := h.validate.Struct(req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	if err := h.subscriptionService.Subscribe(r.Context(), req.Name, req.Email); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")

	if err := h.subscriptionService.Confirm(r.Context(), token); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusOK)
}
