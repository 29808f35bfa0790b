// internal/app/features/student/routes.go
package student

import "github.com/go-chi/chi/v5"

// Routes returns the authenticated user subrouter, mounted under
// /api/user behind token validation.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/data", h.ServeUserData)
	r.Post("/enroll", h.ServeEnroll)
	r.Get("/enrolled-courses", h.ServeEnrolledCourses)
	r.Post("/update-course-progress", h.ServeUpdateProgress)
	r.Post("/get-course-progress", h.ServeGetProgress)
	r.Post("/add-rating", h.ServeAddRating)
	return r
}
