package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andriyko/contactbook-backend/internal/models"
)

const (
	// RefreshTokenTTL is fixed at 7 days.
	RefreshTokenTTL = 7 * 24 * time.Hour
	// userCacheTTL bounds staleness of the best-effort user lookup cache.
	userCacheTTL = 5 * time.Minute
)

// UserStore is the durable table of user records.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// MarkVerified returns false when no user has that email.
	MarkVerified(ctx context.Context, email string) (bool, error)
	SetRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error
	SetAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
}

// PasswordHasher is the one-way adaptive hash primitive.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) (bool, error)
}

// TokenCodec signs and verifies subject+expiry claim bundles. Verify must
// reject expired claims, so callers never check expiry separately.
type TokenCodec interface {
	Sign(subject string, ttl time.Duration) (string, error)
	Verify(token string) (subject string, err error)
}

// Cache is a non-authoritative read-through accelerator. Both methods may fail
// freely; AuthService swallows every cache error.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService orchestrates registration, email verification, login, token
// refresh and current-user resolution. Tokens carry the user's email as
// subject; only the most recently issued refresh token is valid per user.
type AuthService struct {
	users          UserStore
	hasher         PasswordHasher
	tokens         TokenCodec
	cache          Cache  // optional
	mailer         Mailer // optional
	accessTokenTTL time.Duration
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenCodec, cache Cache, mailer Mailer, accessTokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:          users,
		hasher:         hasher,
		tokens:         tokens,
		cache:          cache,
		mailer:         mailer,
		accessTokenTTL: accessTokenTTL,
	}
}

// Register creates an unverified user. Duplicate email yields ErrConflict
// with no mutation. Sending the verification notification is best-effort.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, ErrConflict
	}

	passwordHash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   false,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.mailer != nil {
		_ = s.mailer.SendVerificationEmail(ctx, email)
	}

	return user, nil
}

// VerifyEmail marks the user verified. Idempotent: verifying an already
// verified user succeeds silently. Unknown email yields ErrNotFound.
func (s *AuthService) VerifyEmail(ctx context.Context, email string) error {
	found, err := s.users.MarkVerified(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Login verifies credentials and issues a fresh token pair. The new refresh
// token overwrites any previous one, invalidating earlier sessions. Unknown
// email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	ok, err := s.hasher.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrUnauthorized
	}

	accessToken, err := s.tokens.Sign(user.Email, s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.tokens.Sign(user.Email, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	user.RefreshToken = refreshToken
	s.cacheUser(ctx, user)

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token for a valid refresh token. The presented
// token must decode, be unexpired and equal the stored token exactly; a
// superseded token fails even if well-signed. The refresh token is echoed
// back unchanged (no rotation).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subject, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByEmail(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.RefreshToken != refreshToken {
		return nil, ErrUnauthorized
	}

	accessToken, err := s.tokens.Sign(user.Email, s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ResolveCurrentUser resolves a bearer access token to its user. Decode
// failure already covers expiry; an unresolvable subject is ErrUnauthorized.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, bearerToken string) (*models.User, error) {
	subject, err := s.tokens.Verify(bearerToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if cached := s.cachedUser(ctx, subject); cached != nil {
		return cached, nil
	}

	user, err := s.users.GetUserByEmail(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// SetAvatar persists the hosted avatar URL for the user.
func (s *AuthService) SetAvatar(ctx context.Context, user *models.User, avatarURL string) error {
	if err := s.users.SetAvatarURL(ctx, user.ID, avatarURL); err != nil {
		return fmt.Errorf("failed to store avatar url: %w", err)
	}
	user.AvatarURL = avatarURL
	s.cacheUser(ctx, user)
	return nil
}

func userCacheKey(email string) string {
	return "user:" + email
}

// cacheUser is fire-and-forget: cache failures never surface.
func (s *AuthService) cacheUser(ctx context.Context, user *models.User) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, userCacheKey(user.Email), user, userCacheTTL)
}

func (s *AuthService) cachedUser(ctx context.Context, email string) *models.User {
	if s.cache == nil {
		return nil
	}
	user := &models.User{}
	hit, err := s.cache.Get(ctx, userCacheKey(email), user)
	if err != nil || !hit {
		return nil
	}
	return user
}
