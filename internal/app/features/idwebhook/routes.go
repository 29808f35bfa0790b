// internal/app/features/idwebhook/routes.go
package idwebhook

import "github.com/go-chi/chi/v5"

// Routes returns the webhook subrouter, mounted under /api/webhooks.
// Authentication is the payload signature, not a bearer token.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/identity", h.Serve)
	return r
}
