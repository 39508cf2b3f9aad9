package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/pkg/constants"
)

func TestEnqueueWithinTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOutboxRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO email_outbox").
		WithArgs(sqlmock.AnyArg(), "jane@example.com", constants.EmailKindConfirmation,
			sqlmock.AnyArg(), OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	payload := models.EmailPayload{FullName: "Jane", Token: "tok", BaseURL: "http://localhost:8000"}
	id, err := repo.Enqueue(context.Background(), tx, "jane@example.com", constants.EmailKindConfirmation, payload)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOutboxRepository(db)

	rows := sqlmock.NewRows([]string{"id", "recipient", "kind", "payload", "status",
		"retry_count", "last_error", "created_date", "last_modified_date"}).
		AddRow("job-1", "jane@example.com", constants.EmailKindConfirmation,
			`{"full_name":"Jane","token":"tok","base_url":"http://x"}`,
			OutboxStatusPending, 0, nil, time.Now(), time.Now())

	mock.ExpectQuery("(?s)SELECT .+ FROM email_outbox.+WHERE status = \\$1").
		WithArgs(OutboxStatusPending, 100).
		WillReturnRows(rows)

	jobs, err := repo.GetPending(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "jane@example.com", jobs[0].Recipient)
	assert.Nil(t, jobs[0].LastError)
}

func TestMarkRetryKeepsPendingUntilLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOutboxRepository(db)

	// Second attempt of five: stays pending
	mock.ExpectExec("UPDATE email_outbox SET status = \\$1").
		WithArgs(OutboxStatusPending, 2, "smtp timeout", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkRetry(context.Background(), "job-1", "smtp timeout", 1, 5))

	// Fifth attempt: parked as failed
	mock.ExpectExec("UPDATE email_outbox SET status = \\$1").
		WithArgs(OutboxStatusFailed, 5, "smtp timeout", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkRetry(context.Background(), "job-1", "smtp timeout", 4, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOutboxRepository(db)

	mock.ExpectExec("UPDATE email_outbox SET status = \\$1, last_error = NULL").
		WithArgs(OutboxStatusSent, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkSent(context.Background(), "job-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
