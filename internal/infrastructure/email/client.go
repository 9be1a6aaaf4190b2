package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/config"
)

type sendEmailRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// HTTPEmailClient talks to a Postmark-style transactional email API.
type HTTPEmailClient struct {
	baseURL     string
	senderEmail string
	serverToken string
	httpClient  *http.Client
}

func NewEmailClient(cfg config.EmailClientConfig) application.EmailClient {
	return &HTTPEmailClient{
		baseURL:     cfg.BaseURL,
		senderEmail: cfg.SenderEmail,
		serverToken: cfg.ServerToken,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (c *HTTPEmailClient) Send(ctx context.Context, recipient, subject, htmlBody, textBody string) error {
	url := fmt.Sprintf("%s/email", c.baseURL)

	payload := sendEmailRequest{
		From:     c.senderEmail,
		To:       recipient,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(body))
		}
		return &SendError{
			Code:       errResp.Err,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	return nil
}
