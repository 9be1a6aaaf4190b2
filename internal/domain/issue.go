package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewsletterIssue is one published edition of the newsletter.
type NewsletterIssue struct {
	ID          uuid.UUID
	Title       string
	TextContent string
	HTMLContent string
	PublishedAt time.Time
}

func NewNewsletterIssue(title, textContent, htmlContent string) (*NewsletterIssue, error) {
	if strings.TrimSpace(title) == "" {
		return nil, NewMissingRequiredFieldError("title")
	}
	if strings.TrimSpace(textContent) == "" {
		return nil, NewMissingRequiredFieldError("text_content")
	}
	if strings.TrimSpace(htmlContent) == "" {
		return nil, NewMissingRequiredFieldError("html_content")
	}

	return &NewsletterIssue{
		ID:          uuid.New(),
		Title:       title,
		TextContent: textContent,
		HTMLContent: htmlContent,
		PublishedAt: time.Now().UTC(),
	}, nil
}
