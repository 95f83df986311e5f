package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/andriyko/contactbook-backend/internal/middleware"
	"github.com/andriyko/contactbook-backend/internal/services"
)

// AvatarUploader stores an image and returns its public URL.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, file multipart.File) (string, error)
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

type UploadHandler struct {
	uploader AvatarUploader
	auth     *services.AuthService
}

func NewUploadHandler(uploader AvatarUploader, auth *services.AuthService) *UploadHandler {
	return &UploadHandler{uploader: uploader, auth: auth}
}

// UploadAvatar uploads the current user's avatar image and stores its URL
func (h *UploadHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if h.uploader == nil {
		http.Error(w, "File upload service not available", http.StatusInternalServerError)
		return
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	avatarURL, err := h.uploader.UploadAvatar(r.Context(), file)
	if err != nil {
		http.Error(w, "Failed to upload file", http.StatusInternalServerError)
		return
	}

	if err := h.auth.SetAvatar(r.Context(), user, avatarURL); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AvatarResponse{AvatarURL: avatarURL})
}
