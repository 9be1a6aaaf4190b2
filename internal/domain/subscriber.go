package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type SubscriberStatus string

const (
	StatusPendingConfirmation SubscriberStatus = "pending_confirmation"
	StatusConfirmed           SubscriberStatus = "confirmed"
)

const maxEmailLength = 256

// SubscriberEmail is a syntactically plausible email address. Real
// verification happens through the confirmation link, not here.
type SubscriberEmail struct {
	value string
}

func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > maxEmailLength {
		return SubscriberEmail{}, NewInvalidEmailError(raw)
	}

	at := strings.Index(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return SubscriberEmail{}, NewInvalidEmailError(raw)
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return SubscriberEmail{}, NewInvalidEmailError(raw)
	}

	return SubscriberEmail{value: trimmed}, nil
}

func (e SubscriberEmail) String() string {
	return e.value
}

type Subscriber struct {
	ID           uuid.UUID
	Email        SubscriberEmail
	Name         string
	Status       SubscriberStatus
	SubscribedAt time.Time
}

func NewSubscriber(email SubscriberEmail, name string) (*Subscriber, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewMissingRequiredFieldError("name")
	}

	return &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Status:       StatusPendingConfirmation,
		SubscribedAt: time.Now().UTC(),
	}, nil
}
