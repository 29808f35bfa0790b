// internal/app/features/courses/handler.go
package courses

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
)

// Handler serves the public course catalog. No authentication: anyone can
// browse published courses, but non-preview lecture video URLs are
// blanked so the full content is only reachable through enrollment.
type Handler struct {
	Courses *coursestore.Store
	Log     *zap.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(courses *coursestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Courses: courses, Log: logger}
}

// ServeList handles GET /api/course/all.
//
// Returns {success:true, courses:[...]} with every published course,
// newest first, without the content tree or the enrollment roster.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	courses, err := h.Courses.ListPublished(ctx)
	if err != nil {
		respond.Error(w, h.Log, "course list failed", err)
		return
	}
	respond.OK(w, respond.M{"courses": courses})
}

// ServeDetail handles GET /api/course/{id}.
//
// Returns {success:true, courseData} with the full content tree, but
// lecture video URLs are blanked unless the lecture is marked as a free
// preview. Enrolled users fetch playable URLs from the enrolled-courses
// endpoint instead.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, "Course not found.")
		return
	}

	course, err := h.Courses.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		respond.Fail(w, "Course not found.")
		return
	}
	if err != nil {
		respond.Error(w, h.Log, "course detail failed", err)
		return
	}

	for ci := range course.Chapters {
		for li := range course.Chapters[ci].Lectures {
			if !course.Chapters[ci].Lectures[li].PreviewFree {
				course.Chapters[ci].Lectures[li].VideoURL = ""
			}
		}
	}

	respond.OK(w, respond.M{"courseData": course})
}
