package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/pkg/constants"
)

// ContactRepository handles database operations for contacts.
// Every query is scoped to the owning user; a contact belonging to another
// user is indistinguishable from a missing one.
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = "id, name, email, phone_number, date_of_birth, additional_info, user_id, created_date, last_modified_date"

func scanContact(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Contact, error) {
	var c models.Contact
	var info sql.NullString

	err := scanner.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.DateOfBirth,
		&info, &c.UserID, &c.CreatedDate, &c.LastModifiedDate)
	if err != nil {
		return nil, err
	}

	if info.Valid {
		c.AdditionalInfo = &info.String
	}
	return &c, nil
}

func (r *ContactRepository) collect(rows *sql.Rows) ([]*models.Contact, error) {
	defer rows.Close()

	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// InsertContact persists a new contact
func (r *ContactRepository) InsertContact(ctx context.Context, c *models.Contact) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, phone_number, date_of_birth, additional_info, user_id, created_date, last_modified_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		constants.TableContacts)

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.PhoneNumber, c.DateOfBirth, c.AdditionalInfo, c.UserID)
	return err
}

// GetContact fetches a single contact by id for the given owner.
// Returns nil when the contact does not exist or is owned by someone else.
func (r *ContactRepository) GetContact(ctx context.Context, contactID, userID string) (*models.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = $2 LIMIT 1",
		contactColumns, constants.TableContacts, constants.FieldID, constants.FieldUserID)

	c, err := scanContact(r.db.QueryRowContext(ctx, query, contactID, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// ListContacts returns a page of the owner's contacts
func (r *ContactRepository) ListContacts(ctx context.Context, userID string, limit, offset int) ([]*models.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC LIMIT $2 OFFSET $3",
		contactColumns, constants.TableContacts, constants.FieldUserID, constants.FieldCreatedDate)

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// UpdateContact replaces the editable fields of a contact.
// Returns false when nothing matched (missing or foreign contact).
func (r *ContactRepository) UpdateContact(ctx context.Context, c *models.Contact) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $1, email = $2, phone_number = $3, date_of_birth = $4, additional_info = $5, %s = $6
		WHERE %s = $7 AND %s = $8`,
		constants.TableContacts, constants.FieldLastModifiedDate, constants.FieldID, constants.FieldUserID)

	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.Email, c.PhoneNumber, c.DateOfBirth, c.AdditionalInfo, time.Now(), c.ID, c.UserID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteContact removes a contact. Returns false when nothing matched.
func (r *ContactRepository) DeleteContact(ctx context.Context, contactID, userID string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		constants.TableContacts, constants.FieldID, constants.FieldUserID)

	res, err := r.db.ExecContext(ctx, query, contactID, userID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

// SearchContacts performs a case-insensitive substring search across name,
// email and phone_number within the owner's contacts
func (r *ContactRepository) SearchContacts(ctx context.Context, userID, search string) ([]*models.Contact, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND (name ILIKE $2 OR email ILIKE $2 OR phone_number ILIKE $2)
		ORDER BY %s`,
		contactColumns, constants.TableContacts, constants.FieldUserID, constants.FieldName)

	rows, err := r.db.QueryContext(ctx, query, userID, "%"+search+"%")
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// UpcomingBirthdays returns the owner's contacts whose birthday (month/day)
// falls within the window [from, from+days], handling month rollover.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, userID string, from time.Time, days int) ([]*models.Contact, error) {
	until := from.AddDate(0, 0, days)

	var query string
	var args []interface{}

	if from.Month() == until.Month() {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE %s = $1
			  AND EXTRACT(MONTH FROM %s) = $2
			  AND EXTRACT(DAY FROM %s) BETWEEN $3 AND $4
			ORDER BY EXTRACT(DAY FROM %s)`,
			contactColumns, constants.TableContacts, constants.FieldUserID,
			constants.FieldDateOfBirth, constants.FieldDateOfBirth, constants.FieldDateOfBirth)
		args = []interface{}{userID, int(from.Month()), from.Day(), until.Day()}
	} else {
		// Window spans a month boundary: tail of the current month plus the
		// head of the next one.
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE %s = $1 AND (
			    (EXTRACT(MONTH FROM %s) = $2 AND EXTRACT(DAY FROM %s) >= $3)
			 OR (EXTRACT(MONTH FROM %s) = $4 AND EXTRACT(DAY FROM %s) <= $5)
			)
			ORDER BY EXTRACT(MONTH FROM %s), EXTRACT(DAY FROM %s)`,
			contactColumns, constants.TableContacts, constants.FieldUserID,
			constants.FieldDateOfBirth, constants.FieldDateOfBirth,
			constants.FieldDateOfBirth, constants.FieldDateOfBirth,
			constants.FieldDateOfBirth, constants.FieldDateOfBirth)
		args = []interface{}{userID, int(from.Month()), from.Day(), int(until.Month()), until.Day()}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}
