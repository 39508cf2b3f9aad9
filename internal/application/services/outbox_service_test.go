package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/internal/infrastructure/persistence"
	"github.com/contactsapp/backend/pkg/constants"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(recipient, kind string, payload models.EmailPayload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recipient)
	return nil
}

func pendingEmailRows(id, payload string, retryCount int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "recipient", "kind", "payload", "status",
		"retry_count", "last_error", "created_date", "last_modified_date"}).
		AddRow(id, "jane@example.com", constants.EmailKindConfirmation, payload,
			persistence.OutboxStatusPending, retryCount, nil, time.Now(), time.Now())
}

func TestProcessOutboxDeliversAndMarksSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sender := &fakeSender{}
	svc := NewOutboxService(persistence.NewOutboxRepository(db), sender)

	mock.ExpectQuery("(?s)SELECT .+ FROM email_outbox").
		WithArgs(persistence.OutboxStatusPending, OutboxBatchSize).
		WillReturnRows(pendingEmailRows("job-1", `{"full_name":"Jane","token":"tok","base_url":"http://x"}`, 0))
	mock.ExpectExec("UPDATE email_outbox SET status = \\$1, last_error = NULL").
		WithArgs(persistence.OutboxStatusSent, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.ProcessOutbox(context.Background()))
	assert.Equal(t, []string{"jane@example.com"}, sender.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessOutboxRetriesOnSendFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sender := &fakeSender{err: errors.New("smtp timeout")}
	svc := NewOutboxService(persistence.NewOutboxRepository(db), sender)

	mock.ExpectQuery("(?s)SELECT .+ FROM email_outbox").
		WithArgs(persistence.OutboxStatusPending, OutboxBatchSize).
		WillReturnRows(pendingEmailRows("job-1", `{"full_name":"Jane","token":"tok","base_url":"http://x"}`, 0))
	mock.ExpectExec("UPDATE email_outbox SET status = \\$1").
		WithArgs(persistence.OutboxStatusPending, 1, "smtp timeout", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.ProcessOutbox(context.Background()))
	assert.Empty(t, sender.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessOutboxBurnsRetriesOnBadPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sender := &fakeSender{}
	svc := NewOutboxService(persistence.NewOutboxRepository(db), sender)

	mock.ExpectQuery("(?s)SELECT .+ FROM email_outbox").
		WithArgs(persistence.OutboxStatusPending, OutboxBatchSize).
		WillReturnRows(pendingEmailRows("job-1", "{not json", 0))
	mock.ExpectExec("UPDATE email_outbox SET status = \\$1").
		WithArgs(persistence.OutboxStatusFailed, MaxRetryAttempts+1, sqlmock.AnyArg(), "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.ProcessOutbox(context.Background()))
	assert.Empty(t, sender.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartStopWorker(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewOutboxService(persistence.NewOutboxRepository(db), &fakeSender{})
	svc.StartWorker()
	svc.StopWorker()
	// Second stop is a no-op
	svc.StopWorker()
}
