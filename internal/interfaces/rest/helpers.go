package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	code := application.ErrCodeInternal
	message := "An internal error occurred"
	statusCode := http.StatusInternalServerError

	if svcErr, ok := application.IsServiceError(err); ok {
		code = svcErr.Code
		message = svcErr.Message
		statusCode = svcErr.HTTPStatus
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}

	response := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// WriteResponse replays a buffered response verbatim: header pairs in
// their original order, then the status line, then the body bytes.
func WriteResponse(w http.ResponseWriter, resp *domain.Response) {
	for _, h := range resp.Headers {
		w.Header().Add(h.Name, string(h.Value))
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
