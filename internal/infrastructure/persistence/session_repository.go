package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/pkg/constants"
)

// SessionRepository handles database operations for login sessions
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// InsertSession creates a new session in the database
func (r *SessionRepository) InsertSession(ctx context.Context, s *models.Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, token, expires_at, ip_address, user_agent, is_revoked, last_activity, created_date, last_modified_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		constants.TableSessions)

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.Token, s.ExpiresAt, s.IPAddress, s.UserAgent, s.IsRevoked, s.LastActivity)
	return err
}

// IsRevoked reports the revocation state of a session.
// Returns sql.ErrNoRows when the session does not exist.
func (r *SessionRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	var revoked bool
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1",
		constants.FieldIsRevoked, constants.TableSessions, constants.FieldID)

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&revoked)
	return revoked, err
}

// RevokeSession marks a session as revoked
func (r *SessionRepository) RevokeSession(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1",
		constants.TableSessions, constants.FieldIsRevoked, constants.FieldLastModifiedDate, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, sessionID)
	return err
}

// TouchSession updates the last activity timestamp for a session
func (r *SessionRepository) TouchSession(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = NOW() WHERE %s = $1",
		constants.TableSessions, constants.FieldLastActivity, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, sessionID)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry or already revoked.
// Returns the number of rows purged.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s < NOW() OR %s = TRUE",
		constants.TableSessions, constants.FieldExpiresAt, constants.FieldIsRevoked)

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
