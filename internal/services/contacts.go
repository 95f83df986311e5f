package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andriyko/contactbook-backend/internal/models"
)

// upcomingWindowDays is the inclusive birthday lookahead: [ref, ref+7].
const upcomingWindowDays = 7

// ContactStore is the durable table of contact records. Implementations must
// scope every read and mutation by owner id.
type ContactStore interface {
	CreateContact(ctx context.Context, c *models.Contact) error
	ListContacts(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error)
	// GetContact returns nil, nil for a contact that is missing or not owned.
	GetContact(ctx context.Context, ownerID, id uuid.UUID) (*models.Contact, error)
	// UpdateContact and DeleteContact return false for missing or not-owned.
	UpdateContact(ctx context.Context, c *models.Contact) (bool, error)
	DeleteContact(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
	SearchContacts(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Contact, error)
}

// ContactFields are the profile fields a user supplies when creating or
// replacing a contact.
type ContactFields struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       models.Date
	AdditionalInfo string
}

// ContactService implements owner-scoped CRUD, search and upcoming-birthday
// queries. Missing and not-owned contacts both yield ErrNotFound so contact
// ids cannot be probed across users.
type ContactService struct {
	store ContactStore
}

func NewContactService(store ContactStore) *ContactService {
	return &ContactService{store: store}
}

func (s *ContactService) Create(ctx context.Context, ownerID uuid.UUID, fields ContactFields) (*models.Contact, error) {
	contact := &models.Contact{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		CreatedAt:      time.Now(),
		FirstName:      fields.FirstName,
		LastName:       fields.LastName,
		Email:          fields.Email,
		PhoneNumber:    fields.PhoneNumber,
		Birthday:       fields.Birthday,
		AdditionalInfo: fields.AdditionalInfo,
	}
	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error) {
	contacts, err := s.store.ListContacts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Contact, error) {
	contact, err := s.store.GetContact(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ErrNotFound
	}
	return contact, nil
}

// Update fully replaces the profile fields of an owned contact.
func (s *ContactService) Update(ctx context.Context, ownerID, id uuid.UUID, fields ContactFields) (*models.Contact, error) {
	contact := &models.Contact{
		ID:             id,
		OwnerID:        ownerID,
		FirstName:      fields.FirstName,
		LastName:       fields.LastName,
		Email:          fields.Email,
		PhoneNumber:    fields.PhoneNumber,
		Birthday:       fields.Birthday,
		AdditionalInfo: fields.AdditionalInfo,
	}

	found, err := s.store.UpdateContact(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	// Re-read so the caller sees created_at and exactly what was stored.
	return s.Get(ctx, ownerID, id)
}

func (s *ContactService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	found, err := s.store.DeleteContact(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Search matches query as a case-insensitive substring of first name, last
// name or email. An empty query matches all of the caller's contacts.
func (s *ContactService) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Contact, error) {
	contacts, err := s.store.SearchContacts(ctx, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return contacts, nil
}

// UpcomingBirthdays returns owned contacts whose birthday, treated as a
// recurring month/day event, falls within [referenceDate, referenceDate+7]
// inclusive. Birthdays are projected onto the reference year and the next
// one, so a window spanning late December also matches early January.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, ownerID uuid.UUID, referenceDate models.Date) ([]models.Contact, error) {
	contacts, err := s.store.ListContacts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	upcoming := make([]models.Contact, 0)
	for _, c := range contacts {
		if birthdayInWindow(c.Birthday, referenceDate) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}

func birthdayInWindow(birthday, ref models.Date) bool {
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	// The next occurrence is either this year or, when the window crosses
	// December into January, next year.
	for _, year := range []int{ref.Year(), ref.Year() + 1} {
		occurrence := time.Date(year, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
		days := int(occurrence.Sub(refDay).Hours() / 24)
		if days >= 0 && days <= upcomingWindowDays {
			return true
		}
	}
	return false
}
