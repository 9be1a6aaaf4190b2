package services_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application"
	"github.com/DanielPopoola/ficmart-newsletter/internal/application/services"
	"github.com/DanielPopoola/ficmart-newsletter/internal/application/services/testhelpers"
	"github.com/DanielPopoola/ficmart-newsletter/internal/domain"
	"github.com/DanielPopoola/ficmart-newsletter/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PublishServiceTestSuite struct {
	suite.Suite
	testDB  *testhelpers.TestDatabase
	ledger  *postgres.IdempotencyLedger
	repo    *postgres.NewsletterRepository
	service *services.PublishService
}

func TestPublishServiceSuite(t *testing.T) {
	suite.Run(t, new(PublishServiceTestSuite))
}

func (suite *PublishServiceTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.ledger = postgres.NewIdempotencyLedger(suite.testDB.DB)
	suite.repo = postgres.NewNewsletterRepository(suite.testDB.DB)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	suite.service = services.NewPublishService(suite.ledger, suite.repo, logger)
}

func (suite *PublishServiceTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *PublishServiceTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
}

func (suite *PublishServiceTestSuite) mustKey(raw string) domain.IdempotencyKey {
	key, err := domain.ParseIdempotencyKey(raw)
	require.NoError(suite.T(), err)
	return key
}

func (suite *PublishServiceTestSuite) Test_Publish_Success() {
	ctx := context.Background()
	t := suite.T()

	testhelpers.InsertConfirmedSubscriber(t, ctx, suite.testDB.DB, "a@ficmart.test")
	testhelpers.InsertConfirmedSubscriber(t, ctx, suite.testDB.DB, "b@ficmart.test")
	testhelpers.InsertSubscriber(t, ctx, suite.testDB.DB, "pending@ficmart.test", domain.StatusPendingConfirmation)

	key := suite.mustKey("publish-" + uuid.New().String())

	resp, err := suite.service.Publish(ctx, uuid.New(), key, testhelpers.DefaultPublishCommand())

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 303, resp.StatusCode)
	require.Len(t, resp.Headers, 1)
	assert.Equal(t, "Location", resp.Headers[0].Name)
	assert.Equal(t, []byte("/admin/newsletters"), resp.Headers[0].Value)

	assert.EqualValues(t, 1, testhelpers.CountRows(t, ctx, suite.testDB.DB, "newsletter_issues"))

	// Fan-out covers the confirmed set only.
	rows, err := suite.testDB.DB.Pool.Query(ctx, "SELECT subscriber_email FROM issue_delivery_queue ORDER BY subscriber_email")
	require.NoError(t, err)
	defer rows.Close()

	var recipients []string
	for rows.Next() {
		var email string
		require.NoError(t, rows.Scan(&email))
		recipients = append(recipients, email)
	}
	assert.Equal(t, []string{"a@ficmart.test", "b@ficmart.test"}, recipients)
}

func (suite *PublishServiceTestSuite) Test_Publish_SequentialDuplicate_ReplaysWithoutReexecuting() {
	ctx := context.Background()
	t := suite.T()

	testhelpers.InsertConfirmedSubscriber(t, ctx, suite.testDB.DB, "a@ficmart.test")

	userID := uuid.New()
	key := suite.mustKey("publish-" + uuid.New().String())
	cmd := testhelpers.DefaultPublishCommand()

	first, err := suite.service.Publish(ctx, userID, key, cmd)
	require.NoError(t, err)

	second, err := suite.service.Publish(ctx, userID, key, cmd)
	require.NoError(t, err)

	assert.Equal(t, first.StatusCode, second.StatusCode)
	assert.Equal(t, first.Headers, second.Headers)
	assert.Equal(t, first.Body, second.Body)

	// The side effects happened exactly once.
	assert.EqualValues(t, 1, testhelpers.CountRows(t, ctx, suite.testDB.DB, "newsletter_issues"))
	assert.EqualValues(t, 1, testhelpers.CountRows(t, ctx, suite.testDB.DB, "issue_delivery_queue"))
}

func (suite *PublishServiceTestSuite) Test_Publish_ConcurrentDuplicates_OneExecution() {
	ctx := context.Background()
	t := suite.T()

	testhelpers.InsertConfirmedSubscriber(t, ctx, suite.testDB.DB, "a@ficmart.test")
	testhelpers.InsertConfirmedSubscriber(t, ctx, suite.testDB.DB, "b@ficmart.test")

	userID := uuid.New()
	key := suite.mustKey("publish-" + uuid.New().String())
	cmd := testhelpers.DefaultPublishCommand()

	const numRequests = 5

	var wg sync.WaitGroup
	responses := make(chan *domain.Response, numRequests)
	errs := make(chan error, numRequests)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := suite.service.Publish(ctx, userID, key, cmd)
			if err != nil {
				errs <- err
				return
			}
			responses <- resp
		}()
	}

	wg.Wait()
	close(responses)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var all []*domain.Response
	for resp := range responses {
		all = append(all, resp)
	}
	require.Len(t, all, numRequests)
	for _, resp := range all[1:] {
		assert.Equal(t, all[0].StatusCode, resp.StatusCode)
		assert.Equal(t, all[0].Headers, resp.Headers)
		assert.Equal(t, all[0].Body, resp.Body)
	}

	assert.EqualValues(t, 1, testhelpers.CountRows(t, ctx, suite.testDB.DB, "newsletter_issues"))
	assert.EqualValues(t, 2, testhelpers.CountRows(t, ctx, suite.testDB.DB, "issue_delivery_queue"))
}

func (suite *PublishServiceTestSuite) Test_Publish_InvalidPayload_NoLedgerRow() {
	ctx := context.Background()
	t := suite.T()

	key := suite.mustKey("publish-" + uuid.New().String())

	_, err := suite.service.Publish(ctx, uuid.New(), key, services.PublishCommand{
		Title:       "",
		TextContent: "text",
		HTMLContent: "<p>html</p>",
	})

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeInvalidInput, svcErr.Code)

	assert.EqualValues(t, 0, testhelpers.CountRows(t, ctx, suite.testDB.DB, "idempotency"))
}

func (suite *PublishServiceTestSuite) Test_Publish_FailureAfterClaim_KeyBecomesClaimable() {
	ctx := context.Background()
	t := suite.T()

	testhelpers.InsertConfirmedSubscriber(t, ctx, suite.testDB.DB, "a@ficmart.test")

	userID := uuid.New()
	key := suite.mustKey("publish-" + uuid.New().String())
	cmd := testhelpers.DefaultPublishCommand()

	// Force a database error in the middle of the workflow.
	_, err := suite.testDB.DB.Pool.Exec(ctx, "ALTER TABLE issue_delivery_queue RENAME TO issue_delivery_queue_hidden")
	require.NoError(t, err)

	_, err = suite.service.Publish(ctx, userID, key, cmd)
	require.Error(t, err)

	_, restoreErr := suite.testDB.DB.Pool.Exec(ctx, "ALTER TABLE issue_delivery_queue_hidden RENAME TO issue_delivery_queue")
	require.NoError(t, restoreErr)

	// The whole claim rolled back: no ledger row, no issue row.
	assert.EqualValues(t, 0, testhelpers.CountRows(t, ctx, suite.testDB.DB, "idempotency"))
	assert.EqualValues(t, 0, testhelpers.CountRows(t, ctx, suite.testDB.DB, "newsletter_issues"))

	// A retry with the same key runs the workflow from scratch.
	resp, err := suite.service.Publish(ctx, userID, key, cmd)
	require.NoError(t, err)
	assert.Equal(t, 303, resp.StatusCode)
	assert.EqualValues(t, 1, testhelpers.CountRows(t, ctx, suite.testDB.DB, "newsletter_issues"))
}
