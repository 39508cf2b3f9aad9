package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsapp/backend/internal/domain/models"
)

var contactCols = []string{"id", "name", "email", "phone_number", "date_of_birth",
	"additional_info", "user_id", "created_date", "last_modified_date"}

func contactRow(rows *sqlmock.Rows, c *models.Contact) *sqlmock.Rows {
	info := interface{}(nil)
	if c.AdditionalInfo != nil {
		info = *c.AdditionalInfo
	}
	return rows.AddRow(c.ID, c.Name, c.Email, c.PhoneNumber, c.DateOfBirth, info,
		c.UserID, time.Now(), time.Now())
}

func sampleContact() *models.Contact {
	return &models.Contact{
		ID:          "contact-1",
		Name:        "Bob Smith",
		Email:       "bob@example.com",
		PhoneNumber: "+380501234567",
		DateOfBirth: time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC),
		UserID:      "user-1",
	}
}

func TestInsertContact(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)
	c := sampleContact()

	mock.ExpectExec("INSERT INTO contacts").
		WithArgs(c.ID, c.Name, c.Email, c.PhoneNumber, c.DateOfBirth, nil, c.UserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.InsertContact(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetContactScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)
	c := sampleContact()

	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id = \\$1 AND user_id = \\$2 LIMIT 1").
		WithArgs(c.ID, c.UserID).
		WillReturnRows(contactRow(sqlmock.NewRows(contactCols), c))

	got, err := repo.GetContact(context.Background(), c.ID, c.UserID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bob Smith", got.Name)

	// Same id queried by another user yields no rows
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id = \\$1 AND user_id = \\$2 LIMIT 1").
		WithArgs(c.ID, "intruder").
		WillReturnRows(sqlmock.NewRows(contactCols))

	got, err = repo.GetContact(context.Background(), c.ID, "intruder")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestListContacts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)

	rows := sqlmock.NewRows(contactCols)
	contactRow(rows, sampleContact())
	second := sampleContact()
	second.ID = "contact-2"
	second.Name = "Alice Jones"
	contactRow(rows, second)

	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE user_id = \\$1 ORDER BY created_date DESC LIMIT \\$2 OFFSET \\$3").
		WithArgs("user-1", 10, 0).
		WillReturnRows(rows)

	contacts, err := repo.ListContacts(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Alice Jones", contacts[1].Name)
}

func TestUpdateContactReportsMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)
	c := sampleContact()

	mock.ExpectExec("UPDATE contacts SET").
		WithArgs(c.Name, c.Email, c.PhoneNumber, c.DateOfBirth, nil, sqlmock.AnyArg(), c.ID, c.UserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.UpdateContact(context.Background(), c)
	assert.NoError(t, err)
	assert.True(t, found)

	mock.ExpectExec("UPDATE contacts SET").
		WithArgs(c.Name, c.Email, c.PhoneNumber, c.DateOfBirth, nil, sqlmock.AnyArg(), c.ID, c.UserID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err = repo.UpdateContact(context.Background(), c)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteContactReportsMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)

	mock.ExpectExec("DELETE FROM contacts WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("contact-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.DeleteContact(context.Background(), "contact-1", "user-1")
	assert.NoError(t, err)
	assert.True(t, found)

	mock.ExpectExec("DELETE FROM contacts WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("missing", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err = repo.DeleteContact(context.Background(), "missing", "user-1")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestSearchContacts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)

	rows := contactRow(sqlmock.NewRows(contactCols), sampleContact())

	mock.ExpectQuery("(?s)SELECT .+ FROM contacts.+ILIKE \\$2").
		WithArgs("user-1", "%bob%").
		WillReturnRows(rows)

	contacts, err := repo.SearchContacts(context.Background(), "user-1", "bob")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Bob Smith", contacts[0].Name)
}

func TestUpcomingBirthdaysSameMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)

	// March 10 + 7 days stays in March
	from := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	rows := contactRow(sqlmock.NewRows(contactCols), sampleContact())

	mock.ExpectQuery("EXTRACT\\(DAY FROM date_of_birth\\) BETWEEN \\$3 AND \\$4").
		WithArgs("user-1", 3, 10, 17).
		WillReturnRows(rows)

	contacts, err := repo.UpcomingBirthdays(context.Background(), "user-1", from, 7)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestUpcomingBirthdaysMonthRollover(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)

	// December 28 + 7 days wraps into January
	from := time.Date(2026, time.December, 28, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("EXTRACT\\(DAY FROM date_of_birth\\) >= \\$3").
		WithArgs("user-1", 12, 28, 1, 4).
		WillReturnRows(sqlmock.NewRows(contactCols))

	contacts, err := repo.UpcomingBirthdays(context.Background(), "user-1", from, 7)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}
