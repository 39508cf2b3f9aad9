package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/pkg/constants"
	"github.com/contactsapp/backend/pkg/utils"
)

// Outbox email statuses
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// Execer is satisfied by both *sql.DB and *sql.Tx so mail can be enqueued
// inside the transaction of the write that triggered it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// OutboxRepository handles database operations for the transactional email outbox
type OutboxRepository struct {
	db *sql.DB
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Enqueue inserts a pending mail job. Pass the surrounding *sql.Tx so the job
// commits or rolls back together with the business write.
func (r *OutboxRepository) Enqueue(ctx context.Context, exec Execer, recipient, kind string, payload models.EmailPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	id := utils.GenerateID()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, recipient, kind, payload, status, retry_count, created_date, last_modified_date)
		VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())`,
		constants.TableEmailOutbox)

	if _, err := exec.ExecContext(ctx, query, id, recipient, kind, string(raw), OutboxStatusPending); err != nil {
		return "", err
	}
	return id, nil
}

// GetPending returns up to limit pending mail jobs, oldest first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*models.OutboxEmail, error) {
	query := fmt.Sprintf(`
		SELECT id, recipient, kind, payload, status, retry_count, last_error, created_date, last_modified_date
		FROM %s
		WHERE status = $1
		ORDER BY created_date
		LIMIT $2`,
		constants.TableEmailOutbox)

	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*models.OutboxEmail, 0)
	for rows.Next() {
		var e models.OutboxEmail
		var lastError sql.NullString

		if err := rows.Scan(&e.ID, &e.Recipient, &e.Kind, &e.Payload, &e.Status,
			&e.RetryCount, &lastError, &e.CreatedDate, &e.LastModifiedDate); err != nil {
			return nil, err
		}
		if lastError.Valid {
			e.LastError = &lastError.String
		}
		jobs = append(jobs, &e)
	}
	return jobs, rows.Err()
}

// MarkSent flags a mail job as delivered
func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	query := fmt.Sprintf("UPDATE %s SET status = $1, last_error = NULL, %s = NOW() WHERE %s = $2",
		constants.TableEmailOutbox, constants.FieldLastModifiedDate, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, OutboxStatusSent, id)
	return err
}

// MarkRetry records a delivery failure. Once retryCount reaches maxRetries
// the job moves to the failed state and is never retried again.
func (r *OutboxRepository) MarkRetry(ctx context.Context, id, deliveryErr string, retryCount, maxRetries int) error {
	status := OutboxStatusPending
	if retryCount+1 >= maxRetries {
		status = OutboxStatusFailed
	}

	query := fmt.Sprintf("UPDATE %s SET status = $1, retry_count = $2, last_error = $3, %s = NOW() WHERE %s = $4",
		constants.TableEmailOutbox, constants.FieldLastModifiedDate, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, status, retryCount+1, deliveryErr, id)
	return err
}

// DeleteSentBefore removes delivered jobs older than the cutoff.
// Returns the number of rows purged.
func (r *OutboxRepository) DeleteSentBefore(ctx context.Context, days int) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE status = $1 AND %s < NOW() - make_interval(days => $2)",
		constants.TableEmailOutbox, constants.FieldLastModifiedDate)

	res, err := r.db.ExecContext(ctx, query, OutboxStatusSent, days)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
