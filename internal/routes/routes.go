package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/andriyko/contactbook-backend/internal/handlers"
	"github.com/andriyko/contactbook-backend/internal/middleware"
)

// SetupRoutes mounts the public auth endpoints and the bearer-protected
// contact and upload endpoints.
func SetupRoutes(r chi.Router, auth *handlers.AuthHandler, contacts *handlers.ContactHandler, upload *handlers.UploadHandler, resolver middleware.UserResolver) {
	// Public auth routes
	r.Post("/register", auth.Register)
	r.Get("/verify-email", auth.VerifyEmail)
	r.Post("/login", auth.Login)
	r.Post("/refresh", auth.Refresh)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(resolver))

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", contacts.Create)
			r.Get("/", contacts.List)
			r.Get("/search", contacts.Search)
			r.Get("/birthdays", contacts.Birthdays)
			r.Get("/{id}", contacts.Get)
			r.Put("/{id}", contacts.Update)
			r.Delete("/{id}", contacts.Delete)
		})

		r.Post("/upload-avatar", upload.UploadAvatar)
	})
}
