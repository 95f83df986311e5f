package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andriyko/contactbook-backend/internal/handlers"
	"github.com/andriyko/contactbook-backend/internal/models"
	"github.com/andriyko/contactbook-backend/internal/routes"
	"github.com/andriyko/contactbook-backend/internal/services"
	"github.com/andriyko/contactbook-backend/pkg/token"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Email] = *user
	return nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	copied := user
	return &copied, nil
}

func (s *fakeUserStore) MarkVerified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return false, nil
	}
	user.IsVerified = true
	s.users[email] = user
	return true, nil
}

func (s *fakeUserStore) SetRefreshToken(_ context.Context, id uuid.UUID, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, user := range s.users {
		if user.ID == id {
			user.RefreshToken = refreshToken
			s.users[email] = user
		}
	}
	return nil
}

func (s *fakeUserStore) SetAvatarURL(_ context.Context, id uuid.UUID, avatarURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, user := range s.users {
		if user.ID == id {
			user.AvatarURL = avatarURL
			s.users[email] = user
		}
	}
	return nil
}

type fakeContactStore struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]models.Contact
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: make(map[uuid.UUID]models.Contact)}
}

func (s *fakeContactStore) CreateContact(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[c.ID] = *c
	return nil
}

func (s *fakeContactStore) ListContacts(_ context.Context, ownerID uuid.UUID) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Contact
	for _, c := range s.contacts {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeContactStore) GetContact(_ context.Context, ownerID, id uuid.UUID) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, nil
	}
	copied := c
	return &copied, nil
}

func (s *fakeContactStore) UpdateContact(_ context.Context, c *models.Contact) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.contacts[c.ID]
	if !ok || existing.OwnerID != c.OwnerID {
		return false, nil
	}
	s.contacts[c.ID] = *c
	return true, nil
}

func (s *fakeContactStore) DeleteContact(_ context.Context, ownerID, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return false, nil
	}
	delete(s.contacts, id)
	return true, nil
}

func (s *fakeContactStore) SearchContacts(_ context.Context, ownerID uuid.UUID, query string) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(query)
	var out []models.Contact
	for _, c := range s.contacts {
		if c.OwnerID != ownerID {
			continue
		}
		if strings.Contains(strings.ToLower(c.FirstName), needle) ||
			strings.Contains(strings.ToLower(c.LastName), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubHasher struct{}

func (stubHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) VerifyPassword(password, hash string) (bool, error) {
	return hash == "hashed:"+password, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	codec := token.NewCodec("test-secret")
	authService := services.NewAuthService(newFakeUserStore(), stubHasher{}, codec, nil, nil, 15*time.Minute)
	contactService := services.NewContactService(newFakeContactStore())

	r := chi.NewRouter()
	routes.SetupRoutes(r,
		handlers.NewAuthHandler(authService),
		handlers.NewContactHandler(contactService),
		handlers.NewUploadHandler(nil, authService),
		authService,
	)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, bearer string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// registerAndLogin registers a user, verifies the email and returns a token
// pair for it.
func registerAndLogin(t *testing.T, server *httptest.Server, email, password string) services.TokenPair {
	t.Helper()

	resp := doJSON(t, server, http.MethodPost, "/register", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, server, http.MethodGet, "/verify-email?email="+email, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, server, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair services.TokenPair
	decodeBody(t, resp, &pair)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

func sampleContact(first, last, email string) map[string]string {
	return map[string]string{
		"first_name":   first,
		"last_name":    last,
		"email":        email,
		"phone_number": "+380501234567",
		"birthday":     "1990-06-15",
	}
}

func TestRegisterAndDuplicate(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/register", "", map[string]string{
		"email": "dup@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created handlers.RegisterResponse
	decodeBody(t, resp, &created)
	assert.Equal(t, "dup@example.com", created.Email)
	assert.NotEqual(t, uuid.Nil, created.ID)

	resp = doJSON(t, server, http.MethodPost, "/register", "", map[string]string{
		"email": "dup@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodPost, "/register", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestVerifyEmailUnknownUser(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, server, http.MethodGet, "/verify-email?email=nobody@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginWrongPassword(t *testing.T) {
	server := newTestServer(t)
	registerAndLogin(t, server, "user@example.com", "right")

	resp := doJSON(t, server, http.MethodPost, "/login", "", map[string]string{
		"email": "user@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Unknown email gets the same status
	resp = doJSON(t, server, http.MethodPost, "/login", "", map[string]string{
		"email": "ghost@example.com", "password": "right",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRefreshFlow(t *testing.T) {
	server := newTestServer(t)
	pair := registerAndLogin(t, server, "user@example.com", "secret")

	resp := doJSON(t, server, http.MethodPost, "/refresh", "", map[string]string{
		"refreshToken": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed services.TokenPair
	decodeBody(t, resp, &refreshed)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken)

	resp = doJSON(t, server, http.MethodPost, "/refresh", "", map[string]string{
		"refreshToken": "not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/contacts", "/contacts/search", "/contacts/birthdays"} {
		resp := doJSON(t, server, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := doJSON(t, server, http.MethodGet, "/contacts", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestContactLifecycle(t *testing.T) {
	server := newTestServer(t)
	pair := registerAndLogin(t, server, "owner@example.com", "secret")

	// Create
	resp := doJSON(t, server, http.MethodPost, "/contacts", pair.AccessToken,
		sampleContact("Olena", "Shevchenko", "olena@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Contact
	decodeBody(t, resp, &created)
	assert.Equal(t, "Olena", created.FirstName)
	require.NotEqual(t, uuid.Nil, created.ID)

	// Get
	resp = doJSON(t, server, http.MethodGet, "/contacts/"+created.ID.String(), pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Contact
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "1990-06-15", fetched.Birthday.String())

	// Update replaces every field
	resp = doJSON(t, server, http.MethodPut, "/contacts/"+created.ID.String(), pair.AccessToken,
		sampleContact("Olena", "Kovalenko", "olena.k@example.com"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Contact
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Kovalenko", updated.LastName)
	assert.Equal(t, "olena.k@example.com", updated.Email)

	// List
	resp = doJSON(t, server, http.MethodGet, "/contacts", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []models.Contact
	decodeBody(t, resp, &listed)
	assert.Len(t, listed, 1)

	// Delete
	resp = doJSON(t, server, http.MethodDelete, "/contacts/"+created.ID.String(), pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, server, http.MethodGet, "/contacts/"+created.ID.String(), pair.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestContactsAreOwnerScoped(t *testing.T) {
	server := newTestServer(t)
	alice := registerAndLogin(t, server, "alice@example.com", "secret")
	bob := registerAndLogin(t, server, "bob@example.com", "secret")

	resp := doJSON(t, server, http.MethodPost, "/contacts", alice.AccessToken,
		sampleContact("Private", "Person", "private@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Contact
	decodeBody(t, resp, &created)

	// Bob cannot see, replace or delete Alice's contact
	resp = doJSON(t, server, http.MethodGet, "/contacts/"+created.ID.String(), bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, server, http.MethodPut, "/contacts/"+created.ID.String(), bob.AccessToken,
		sampleContact("Hijacked", "Person", "private@example.com"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, server, http.MethodDelete, "/contacts/"+created.ID.String(), bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, server, http.MethodGet, "/contacts", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bobContacts []models.Contact
	decodeBody(t, resp, &bobContacts)
	assert.Empty(t, bobContacts)
}

func TestContactSearch(t *testing.T) {
	server := newTestServer(t)
	pair := registerAndLogin(t, server, "owner@example.com", "secret")

	for _, c := range []map[string]string{
		sampleContact("Anna", "Marchenko", "anna@example.com"),
		sampleContact("Bohdan", "Tkachuk", "bohdan@work.example.com"),
	} {
		resp := doJSON(t, server, http.MethodPost, "/contacts", pair.AccessToken, c)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, server, http.MethodGet, "/contacts/search?query=march", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []models.Contact
	decodeBody(t, resp, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Anna", found[0].FirstName)

	resp = doJSON(t, server, http.MethodGet, "/contacts/search?query=work.example", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found = nil
	decodeBody(t, resp, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Bohdan", found[0].FirstName)
}

func TestUpcomingBirthdaysEndpoint(t *testing.T) {
	server := newTestServer(t)
	pair := registerAndLogin(t, server, "owner@example.com", "secret")

	today := time.Now().UTC()
	inWindow := today.AddDate(0, 0, 3)
	outOfWindow := today.AddDate(0, 0, 30)

	soon := sampleContact("Soon", "Birthday", "soon@example.com")
	soon["birthday"] = fmt.Sprintf("2000-%02d-%02d", inWindow.Month(), inWindow.Day())
	later := sampleContact("Later", "Birthday", "later@example.com")
	later["birthday"] = fmt.Sprintf("2000-%02d-%02d", outOfWindow.Month(), outOfWindow.Day())

	for _, c := range []map[string]string{soon, later} {
		resp := doJSON(t, server, http.MethodPost, "/contacts", pair.AccessToken, c)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, server, http.MethodGet, "/contacts/birthdays", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []models.Contact
	decodeBody(t, resp, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Soon", found[0].FirstName)
}

func TestContactMalformedID(t *testing.T) {
	server := newTestServer(t)
	pair := registerAndLogin(t, server, "owner@example.com", "secret")

	resp := doJSON(t, server, http.MethodGet, "/contacts/not-a-uuid", pair.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestContactValidation(t *testing.T) {
	server := newTestServer(t)
	pair := registerAndLogin(t, server, "owner@example.com", "secret")

	missing := sampleContact("", "Person", "p@example.com")
	resp := doJSON(t, server, http.MethodPost, "/contacts", pair.AccessToken, missing)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUploadAvatarUnavailable(t *testing.T) {
	server := newTestServer(t)
	pair := registerAndLogin(t, server, "owner@example.com", "secret")

	// The test server has no uploader configured
	req, err := http.NewRequest(http.MethodPost, server.URL+"/upload-avatar", bytes.NewReader(nil))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()
}
