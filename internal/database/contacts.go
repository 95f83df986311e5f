package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/andriyko/contactbook-backend/internal/models"
)

// ContactStore persists contact records. Every read and mutation is filtered
// by owner_id so a contact is never visible outside its owning user.
type ContactStore struct {
	db *sql.DB
}

func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) CreateContact(ctx context.Context, c *models.Contact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, created_at, owner_id, first_name, last_name, email, phone_number, birthday, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.CreatedAt, c.OwnerID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday, nullableString(c.AdditionalInfo))
	return err
}

func (s *ContactStore) ListContacts(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, owner_id, first_name, last_name, email, phone_number, birthday, additional_info
		FROM contacts WHERE owner_id = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanContacts(rows)
}

// GetContact returns the contact iff it exists and is owned by ownerID;
// otherwise nil. Missing and not-owned are indistinguishable on purpose.
func (s *ContactStore) GetContact(ctx context.Context, ownerID, id uuid.UUID) (*models.Contact, error) {
	c := &models.Contact{}
	var additionalInfo sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, owner_id, first_name, last_name, email, phone_number, birthday, additional_info
		FROM contacts WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(&c.ID, &c.CreatedAt, &c.OwnerID, &c.FirstName, &c.LastName,
		&c.Email, &c.PhoneNumber, &c.Birthday, &additionalInfo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	c.AdditionalInfo = additionalInfo.String
	return c, nil
}

// UpdateContact replaces the profile fields of an owned contact. Returns false
// when the contact does not exist or is not owned by c.OwnerID.
func (s *ContactStore) UpdateContact(ctx context.Context, c *models.Contact) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone_number = $6, birthday = $7, additional_info = $8
		WHERE id = $1 AND owner_id = $2
	`, c.ID, c.OwnerID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday, nullableString(c.AdditionalInfo))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *ContactStore) DeleteContact(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM contacts WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SearchContacts returns owned contacts whose first name, last name or email
// contains query case-insensitively. An empty query matches everything.
func (s *ContactStore) SearchContacts(ctx context.Context, ownerID uuid.UUID, query string) ([]models.Contact, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, owner_id, first_name, last_name, email, phone_number, birthday, additional_info
		FROM contacts
		WHERE owner_id = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)
		ORDER BY created_at
	`, ownerID, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanContacts(rows)
}

func scanContacts(rows *sql.Rows) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		var additionalInfo sql.NullString

		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.OwnerID, &c.FirstName, &c.LastName,
			&c.Email, &c.PhoneNumber, &c.Birthday, &additionalInfo); err != nil {
			return nil, err
		}
		c.AdditionalInfo = additionalInfo.String
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
