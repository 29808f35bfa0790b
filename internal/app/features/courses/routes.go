// internal/app/features/courses/routes.go
package courses

import "github.com/go-chi/chi/v5"

// Routes returns the public catalog subrouter, mounted under /api/course.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/all", h.ServeList)
	r.Get("/{id}", h.ServeDetail)
	return r
}
