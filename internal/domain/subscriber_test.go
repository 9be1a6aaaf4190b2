package domain_test

import (
	"strings"
	"testing"

	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriberEmail_Valid(t *testing.T) {
	email, err := domain.ParseSubscriberEmail("ursula@ficmart.test")

	require.NoError(t, err)
	assert.Equal(t, "ursula@ficmart.test", email.String())
}

func TestParseSubscriberEmail_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing at", "ursula.ficmart.test"},
		{"missing local part", "@ficmart.test"},
		{"missing host", "ursula@"},
		{"embedded space", "ursula le guin@ficmart.test"},
		{"too long", strings.Repeat("a", 250) + "@ficmart.test"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.ParseSubscriberEmail(tc.raw)
			require.Error(t, err)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidEmail))
		})
	}
}

func TestNewSubscriber_StartsPending(t *testing.T) {
	email, err := domain.ParseSubscriberEmail("ursula@ficmart.test")
	require.NoError(t, err)

	sub, err := domain.NewSubscriber(email, "Ursula")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingConfirmation, sub.Status)
	assert.NotEqual(t, sub.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestNewSubscriber_RequiresName(t *testing.T) {
	email, err := domain.ParseSubscriberEmail("ursula@ficmart.test")
	require.NoError(t, err)

	_, err = domain.NewSubscriber(email, " ")

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
}

func TestNewNewsletterIssue_RequiresContent(t *testing.T) {
	_, err := domain.NewNewsletterIssue("Title", "", "<p>html</p>")
	require.Error(t, err)

	_, err = domain.NewNewsletterIssue("", "text", "<p>html</p>")
	require.Error(t, err)

	issue, err := domain.NewNewsletterIssue("Title", "text", "<p>html</p>")
	require.NoError(t, err)
	assert.Equal(t, "Title", issue.Title)
}

func TestNewResponse_RejectsInvalidStatus(t *testing.T) {
	_, err := domain.NewResponse(99)
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidStatusCode))

	_, err = domain.NewResponse(600)
	require.Error(t, err)

	resp, err := domain.NewResponse(303)
	require.NoError(t, err)
	assert.Equal(t, 303, resp.StatusCode)
}
