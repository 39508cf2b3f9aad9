package services

import (
	"context"
	"fmt"
	"time"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/internal/infrastructure/persistence"
	"github.com/contactsapp/backend/pkg/errors"
	"github.com/contactsapp/backend/pkg/utils"
)

// Pagination bounds for contact listings
const (
	DefaultContactLimit = 10
	MaxContactLimit     = 500
)

// BirthdayWindowDays is the lookahead for the upcoming birthdays listing
const BirthdayWindowDays = 7

// ContactService owns the business rules for address-book entries
type ContactService struct {
	contacts *persistence.ContactRepository
}

// NewContactService creates a new ContactService
func NewContactService(contacts *persistence.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// ContactInput carries contact data supplied by the API layer
type ContactInput struct {
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required"`
	PhoneNumber    string  `json:"phone_number" binding:"required"`
	DateOfBirth    string  `json:"date_of_birth" binding:"required"`
	AdditionalInfo *string `json:"additional_info,omitempty"`
}

func (in ContactInput) validate() (time.Time, error) {
	dob, err := time.Parse("2006-01-02", in.DateOfBirth)
	if err != nil {
		return time.Time{}, errors.NewValidationError("date_of_birth", "must be a date in YYYY-MM-DD format")
	}
	if in.AdditionalInfo != nil && len(*in.AdditionalInfo) > 500 {
		return time.Time{}, errors.NewValidationError("additional_info", "must not exceed 500 characters")
	}
	return dob, nil
}

// Create persists a new contact owned by userID
func (s *ContactService) Create(ctx context.Context, userID string, in ContactInput) (*models.Contact, error) {
	dob, err := in.validate()
	if err != nil {
		return nil, err
	}

	contact := &models.Contact{
		ID:             utils.GenerateID(),
		Name:           in.Name,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		DateOfBirth:    dob,
		AdditionalInfo: in.AdditionalInfo,
		UserID:         userID,
	}

	if err := s.contacts.InsertContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// List returns a page of the owner's contacts. Limit is clamped into
// [1, MaxContactLimit]; zero falls back to the default page size.
func (s *ContactService) List(ctx context.Context, userID string, limit, offset int) ([]*models.Contact, error) {
	if limit <= 0 {
		limit = DefaultContactLimit
	}
	if limit > MaxContactLimit {
		limit = MaxContactLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.contacts.ListContacts(ctx, userID, limit, offset)
}

// Get fetches one contact; missing and foreign contacts both yield NotFound
func (s *ContactService) Get(ctx context.Context, userID, contactID string) (*models.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, contactID, userID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, errors.NewNotFoundError("Contact", contactID)
	}
	return contact, nil
}

// Update replaces the editable fields of a contact
func (s *ContactService) Update(ctx context.Context, userID, contactID string, in ContactInput) (*models.Contact, error) {
	dob, err := in.validate()
	if err != nil {
		return nil, err
	}

	contact := &models.Contact{
		ID:             contactID,
		Name:           in.Name,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		DateOfBirth:    dob,
		AdditionalInfo: in.AdditionalInfo,
		UserID:         userID,
	}

	found, err := s.contacts.UpdateContact(ctx, contact)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NewNotFoundError("Contact", contactID)
	}

	return s.Get(ctx, userID, contactID)
}

// Delete removes a contact
func (s *ContactService) Delete(ctx context.Context, userID, contactID string) error {
	found, err := s.contacts.DeleteContact(ctx, contactID, userID)
	if err != nil {
		return err
	}
	if !found {
		return errors.NewNotFoundError("Contact", contactID)
	}
	return nil
}

// Search runs a case-insensitive substring search over the owner's contacts
func (s *ContactService) Search(ctx context.Context, userID, query string) ([]*models.Contact, error) {
	if query == "" {
		return nil, errors.NewValidationError("query", "search query must not be empty")
	}

	results, err := s.contacts.SearchContacts(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.NewNotFoundError("Matching contacts", "")
	}
	return results, nil
}

// UpcomingBirthdays lists contacts with a birthday in the next week
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID string) ([]*models.Contact, error) {
	results, err := s.contacts.UpcomingBirthdays(ctx, userID, time.Now(), BirthdayWindowDays)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.NewNotFoundError("Upcoming birthdays", "")
	}
	return results, nil
}
