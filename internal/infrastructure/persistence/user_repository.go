package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/pkg/constants"
)

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password, full_name, avatar, confirmed, role, created_date, last_modified_date"

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var avatar sql.NullString

	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &avatar,
		&u.Confirmed, &u.Role, &u.CreatedDate, &u.LastModifiedDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if avatar.Valid {
		u.Avatar = &avatar.String
	}
	return &u, nil
}

// CheckUserExistsByEmail reports whether an account with the email exists
func (r *UserRepository) CheckUserExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", constants.TableUsers, constants.FieldEmail)
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetUserByEmail returns a user by email, or nil when no account matches
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1", userColumns, constants.TableUsers, constants.FieldEmail)
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetUserByID returns a user by primary key, or nil when no account matches
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1", userColumns, constants.TableUsers, constants.FieldID)
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// InsertUser persists a new user. The transaction also carries the outbox
// enqueue for the confirmation mail, so tx is accepted explicitly.
func (r *UserRepository) InsertUser(ctx context.Context, tx *sql.Tx, u *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, email, password, full_name, avatar, confirmed, role, created_date, last_modified_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		constants.TableUsers)

	_, err := tx.ExecContext(ctx, query, u.ID, u.Email, u.Password, u.FullName, u.Avatar, u.Confirmed, u.Role)
	return err
}

// UpdateUser applies a partial column update to a user record
func (r *UserRepository) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}

	for k, v := range updates {
		args = append(args, v)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", k, len(args)))
	}

	// Always update last_modified_date
	args = append(args, time.Now())
	setClauses = append(setClauses, fmt.Sprintf("%s = $%d", constants.FieldLastModifiedDate, len(args)))

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		constants.TableUsers, strings.Join(setClauses, ", "), constants.FieldID, len(args))

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ConfirmEmail marks the account with the given email as confirmed
func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1",
		constants.TableUsers, constants.FieldConfirmed, constants.FieldLastModifiedDate, constants.FieldEmail)
	_, err := r.db.ExecContext(ctx, query, email)
	return err
}

// UpdatePassword replaces the stored password hash for the given email
func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2",
		constants.TableUsers, constants.FieldPassword, constants.FieldLastModifiedDate, constants.FieldEmail)
	_, err := r.db.ExecContext(ctx, query, passwordHash, email)
	return err
}

// UpdateAvatar stores a new avatar URL for the given email
func (r *UserRepository) UpdateAvatar(ctx context.Context, email, avatarURL string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2",
		constants.TableUsers, constants.FieldAvatar, constants.FieldLastModifiedDate, constants.FieldEmail)
	_, err := r.db.ExecContext(ctx, query, avatarURL, email)
	return err
}
