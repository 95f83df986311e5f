package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/andriyko/contactbook-backend/internal/models"
)

// UserStore persists user records in the users table.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, email, password_hash, is_verified)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.CreatedAt, user.Email, user.PasswordHash, user.IsVerified)
	return err
}

// GetUserByEmail returns the user with the given email, or nil if absent.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	var refreshToken, avatarURL sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, email, password_hash, is_verified, refresh_token, avatar_url
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.CreatedAt, &user.Email, &user.PasswordHash,
		&user.IsVerified, &refreshToken, &avatarURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	user.RefreshToken = refreshToken.String
	user.AvatarURL = avatarURL.String
	return user, nil
}

// MarkVerified sets is_verified for the given email. Returns false when no
// such user exists. Re-verifying an already-verified user is a no-op success.
func (s *UserStore) MarkVerified(ctx context.Context, email string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_verified = TRUE WHERE email = $1
	`, email)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetRefreshToken overwrites the user's stored refresh token. The single-row
// UPDATE is atomic; concurrent logins race with last write winning.
func (s *UserStore) SetRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET refresh_token = $2 WHERE id = $1
	`, id, refreshToken)
	return err
}

func (s *UserStore) SetAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET avatar_url = $2 WHERE id = $1
	`, id, avatarURL)
	return err
}
