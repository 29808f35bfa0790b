// internal/app/features/student/handler.go
package student

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	progressstore "github.com/dalemusser/learnhub/internal/app/store/progress"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
)

// Handler serves the authenticated user API: profile, enrollment,
// progress, and ratings. All routes are mounted behind token validation,
// so a missing user record here means the identity webhook has not
// provisioned it yet, not that the caller is unauthenticated.
type Handler struct {
	Users    *userstore.Store
	Courses  *coursestore.Store
	Progress *progressstore.Store
	Log      *zap.Logger
}

// NewHandler creates a student API handler.
func NewHandler(users *userstore.Store, courses *coursestore.Store, progress *progressstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Courses: courses, Progress: progress, Log: logger}
}

// ServeUserData handles GET /api/user/data.
//
// Returns {success:true, user} or {success:false, message:"User Not Found"}
// when the webhook has not written the record yet. The client retries on
// that exact message; any other failure is terminal for it.
func (h *Handler) ServeUserData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		respond.Fail(w, "User Not Found")
		return
	}
	if err != nil {
		respond.Error(w, h.Log, "user data failed", err)
		return
	}
	respond.OK(w, respond.M{"user": user})
}

type enrollRequest struct {
	CourseID string `json:"courseId"`
}

// ServeEnroll handles POST /api/user/enroll.
//
// Adds the course to the user's list and the user to the course roster.
// Both writes use set semantics, so a double submit or a racing duplicate
// request converges to a single enrollment and answers
// "Already Enrolled". There is no cross-document transaction; a failure
// between the two writes leaves the user-side enrollment in place and the
// roster add is retried on the next attempt.
func (h *Handler) ServeEnroll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, "Data Not Found")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		respond.Fail(w, "Data Not Found")
		return
	}

	// Both documents must exist before either side is written.
	if _, err := h.Courses.GetByID(ctx, courseID); err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Fail(w, "Data Not Found")
			return
		}
		respond.Error(w, h.Log, "enroll course lookup failed", err)
		return
	}

	changed, err := h.Users.AddEnrolledCourse(ctx, userID, courseID)
	if err == mongo.ErrNoDocuments {
		respond.Fail(w, "Data Not Found")
		return
	}
	if err != nil {
		respond.Error(w, h.Log, "enroll user update failed", err)
		return
	}

	if _, err := h.Courses.AddEnrolledStudent(ctx, courseID, userID); err != nil {
		respond.Error(w, h.Log, "enroll roster update failed", err)
		return
	}

	if !changed {
		respond.Message(w, "Already Enrolled")
		return
	}
	respond.Message(w, "Enrollment Successful")
}

// ServeEnrolledCourses handles GET /api/user/enrolled-courses.
//
// Returns {success:true, enrolledCourses} with the full course documents
// (lecture URLs included) in the order the user enrolled. Courses deleted
// after enrollment are silently skipped.
func (h *Handler) ServeEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		respond.Fail(w, "User Not Found")
		return
	}
	if err != nil {
		respond.Error(w, h.Log, "enrolled courses user lookup failed", err)
		return
	}

	list, err := h.Courses.ListByIDs(ctx, user.EnrolledCourses)
	if err != nil {
		respond.Error(w, h.Log, "enrolled courses lookup failed", err)
		return
	}
	respond.OK(w, respond.M{"enrolledCourses": list})
}

type progressUpdateRequest struct {
	CourseID  string `json:"courseId"`
	LectureID string `json:"lectureId"`
}

// ServeUpdateProgress handles POST /api/user/update-course-progress.
//
// Records a lecture completion, creating the progress record on first
// use. Re-marking answers "Lecture Already Completed" without mutating.
// When every lecture of the course is done the record's completed flag
// flips; it never flips back.
func (h *Handler) ServeUpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req progressUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, "Invalid Details")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil || req.LectureID == "" {
		respond.Fail(w, "Invalid Details")
		return
	}

	already, err := h.Progress.MarkComplete(ctx, userID, courseID, req.LectureID)
	if err != nil {
		respond.Error(w, h.Log, "progress update failed", err)
		return
	}
	if already {
		respond.Message(w, "Lecture Already Completed")
		return
	}

	h.maybeFlagCompleted(ctx, userID, courseID)

	respond.Message(w, "Progress Updated")
}

// maybeFlagCompleted flips the completed flag once the lecture set covers
// the whole course. Failures only cost the flag, not the update, so they
// are logged and swallowed.
func (h *Handler) maybeFlagCompleted(ctx context.Context, userID string, courseID primitive.ObjectID) {
	course, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		h.Log.Warn("completion check: course lookup failed", zap.Error(err))
		return
	}
	total := course.LectureCount()
	if total == 0 {
		return
	}

	p, err := h.Progress.Get(ctx, userID, courseID)
	if err != nil {
		h.Log.Warn("completion check: progress lookup failed", zap.Error(err))
		return
	}
	if p.Completed || len(p.LecturesCompleted) < total {
		return
	}
	if err := h.Progress.SetCompleted(ctx, userID, courseID, true); err != nil {
		h.Log.Warn("completion check: flag update failed", zap.Error(err))
	}
}

type progressGetRequest struct {
	CourseID string `json:"courseId"`
}

// ServeGetProgress handles POST /api/user/get-course-progress.
//
// Returns {success:true, progressData} where progressData is null when
// the user has not completed anything in the course yet. No record is
// not an error.
func (h *Handler) ServeGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req progressGetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, "Invalid Details")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		respond.Fail(w, "Invalid Details")
		return
	}

	p, err := h.Progress.Get(ctx, userID, courseID)
	if err == mongo.ErrNoDocuments {
		respond.OK(w, respond.M{"progressData": nil})
		return
	}
	if err != nil {
		respond.Error(w, h.Log, "progress lookup failed", err)
		return
	}
	respond.OK(w, respond.M{"progressData": p})
}

type addRatingRequest struct {
	CourseID string `json:"courseId"`
	Rating   int    `json:"rating"`
}

// ServeAddRating handles POST /api/user/add-rating.
//
// One rating per user per course: re-rating overwrites in place. Only
// enrolled users may rate, and a rejected request never touches the
// rating list.
func (h *Handler) ServeAddRating(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req addRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, "Invalid Details")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil || req.Rating < models.MinRating || req.Rating > models.MaxRating {
		respond.Fail(w, "Invalid Details")
		return
	}

	course, err := h.Courses.GetByID(ctx, courseID)
	if err == mongo.ErrNoDocuments {
		respond.Fail(w, "Course not found.")
		return
	}
	if err != nil {
		respond.Error(w, h.Log, "rating course lookup failed", err)
		return
	}
	if !course.HasStudent(userID) {
		respond.Fail(w, "User is not enrolled in this course.")
		return
	}

	if err := h.Courses.UpsertRating(ctx, courseID, userID, req.Rating); err != nil {
		respond.Error(w, h.Log, "rating update failed", err)
		return
	}
	respond.Message(w, "Rating added")
}
