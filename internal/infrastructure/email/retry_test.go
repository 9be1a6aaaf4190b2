package email_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DanielPopoola/ficmart-newsletter/internal/config"
	"github.com/DanielPopoola/ficmart-newsletter/internal/infrastructure/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailClient struct {
	calls   int
	results []error
}

func (f *fakeEmailClient) Send(ctx context.Context, recipient, subject, htmlBody, textBody string) error {
	err := f.results[f.calls]
	f.calls++
	return err
}

func TestRetryEmailClient_SuccessFirstAttempt(t *testing.T) {
	inner := &fakeEmailClient{results: []error{nil}}
	client := email.NewRetryEmailClient(inner, config.RetryConfig{BaseDelay: 0, MaxRetries: 3})

	err := client.Send(context.Background(), "ursula@ficmart.test", "Issue #1", "<p>hi</p>", "hi")

	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryEmailClient_RetriesOn5xx(t *testing.T) {
	inner := &fakeEmailClient{results: []error{
		&email.SendError{Code: "internal_error", Message: "boom", StatusCode: 500},
		&email.SendError{Code: "internal_error", Message: "boom", StatusCode: 503},
		nil,
	}}
	client := email.NewRetryEmailClient(inner, config.RetryConfig{BaseDelay: 0, MaxRetries: 3})

	err := client.Send(context.Background(), "ursula@ficmart.test", "Issue #1", "<p>hi</p>", "hi")

	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryEmailClient_NoRetryOn4xx(t *testing.T) {
	inner := &fakeEmailClient{results: []error{
		&email.SendError{Code: "invalid_recipient", Message: "bad address", StatusCode: 422},
	}}
	client := email.NewRetryEmailClient(inner, config.RetryConfig{BaseDelay: 0, MaxRetries: 3})

	err := client.Send(context.Background(), "not-an-address", "Issue #1", "<p>hi</p>", "hi")

	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)

	sendErr, ok := email.IsSendError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_recipient", sendErr.Code)
}

func TestRetryEmailClient_ExhaustsRetries(t *testing.T) {
	serverErr := &email.SendError{Code: "internal_error", Message: "boom", StatusCode: 500}
	inner := &fakeEmailClient{results: []error{serverErr, serverErr, serverErr}}
	client := email.NewRetryEmailClient(inner, config.RetryConfig{BaseDelay: 0, MaxRetries: 3})

	err := client.Send(context.Background(), "ursula@ficmart.test", "Issue #1", "<p>hi</p>", "hi")

	require.Error(t, err)
	assert.Equal(t, 3, inner.calls)
	assert.Contains(t, err.Error(), "maximum retries exceeded")
}

func TestRetryEmailClient_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &fakeEmailClient{results: []error{nil}}
	client := email.NewRetryEmailClient(inner, config.RetryConfig{BaseDelay: 0, MaxRetries: 3})

	err := client.Send(ctx, "ursula@ficmart.test", "Issue #1", "<p>hi</p>", "hi")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, inner.calls)
}
