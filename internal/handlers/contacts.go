package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andriyko/contactbook-backend/internal/middleware"
	"github.com/andriyko/contactbook-backend/internal/models"
	"github.com/andriyko/contactbook-backend/internal/services"
)

type ContactRequest struct {
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Email          string      `json:"email"`
	PhoneNumber    string      `json:"phone_number"`
	Birthday       models.Date `json:"birthday"`
	AdditionalInfo string      `json:"additional_info,omitempty"`
}

func (req *ContactRequest) validate() string {
	if req.FirstName == "" || req.LastName == "" {
		return "First name and last name are required"
	}
	if req.Email == "" || req.PhoneNumber == "" {
		return "Email and phone number are required"
	}
	if req.Birthday.IsZero() {
		return "Birthday is required"
	}
	return ""
}

func (req *ContactRequest) fields() services.ContactFields {
	return services.ContactFields{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       req.Birthday,
		AdditionalInfo: req.AdditionalInfo,
	}
}

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Create stores a new contact owned by the current user
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.Create(r.Context(), user.ID, req.fields())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// List returns all contacts owned by the current user
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	contacts, err := h.contacts.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// Get returns a single owned contact; missing and not-owned are both 404
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, contactID, ok := h.requireUserAndID(w, r)
	if !ok {
		return
	}

	contact, err := h.contacts.Get(r.Context(), user.ID, contactID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Update fully replaces the profile fields of an owned contact
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, contactID, ok := h.requireUserAndID(w, r)
	if !ok {
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.Update(r.Context(), user.ID, contactID, req.fields())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Delete removes an owned contact
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, contactID, ok := h.requireUserAndID(w, r)
	if !ok {
		return
	}

	if err := h.contacts.Delete(r.Context(), user.ID, contactID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Contact deleted"})
}

// Search filters the current user's contacts by a case-insensitive substring
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	contacts, err := h.contacts.Search(r.Context(), user.ID, r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// Birthdays returns contacts with a birthday in the next 7 days
func (h *ContactHandler) Birthdays(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	today := models.Today()
	contacts, err := h.contacts.UpcomingBirthdays(r.Context(), user.ID, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) requireUserAndID(w http.ResponseWriter, r *http.Request) (*models.User, uuid.UUID, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return nil, uuid.Nil, false
	}

	contactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// Malformed ids are indistinguishable from unknown ones
		http.Error(w, "Not found", http.StatusNotFound)
		return nil, uuid.Nil, false
	}

	return user, contactID, true
}
