// internal/app/features/educator/routes.go
package educator

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/learnhub/internal/app/system/auth"
)

// Routes returns the educator subrouter, mounted under /api/educator
// behind token validation. update-role is reachable by any authenticated
// user (that is how students become educators); everything else requires
// the educator role claim.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/update-role", h.ServeUpdateRole)

	r.Group(func(g chi.Router) {
		g.Use(auth.RequireEducator)
		g.Post("/add-course", h.ServeAddCourse)
		g.Get("/courses", h.ServeCourses)
		g.Get("/dashboard", h.ServeDashboard)
		g.Get("/enrolled-students", h.ServeEnrolledStudents)
	})
	return r
}
