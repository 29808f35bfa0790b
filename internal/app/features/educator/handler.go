// internal/app/features/educator/handler.go
package educator

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/app/system/identity"
	"github.com/dalemusser/learnhub/internal/app/system/media"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
)

// maxUploadBytes caps the multipart body of add-course. Thumbnails are
// small images; anything beyond this is a client error.
const maxUploadBytes = 10 << 20

// dashboardStudentLimit is how many recent enrollments the dashboard
// shows.
const dashboardStudentLimit = 10

// Handler serves the educator API: role promotion, course authoring, and
// the dashboard. Everything except update-role is gated on the educator
// role claim.
type Handler struct {
	Users    *userstore.Store
	Courses  *coursestore.Store
	Identity identity.Client
	Media    media.Store
	Log      *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler creates an educator API handler.
func NewHandler(users *userstore.Store, courses *coursestore.Store, idc identity.Client, mediaStore media.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Courses:  courses,
		Identity: idc,
		Media:    mediaStore,
		Log:      logger,
		// UGC policy: keeps the formatting tags the course editor emits,
		// strips scripts and event handlers.
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// ServeUpdateRole handles POST /api/educator/update-role.
//
// Promotes the caller to educator: the role is mirrored into the
// identity provider's public metadata first (so newly issued tokens
// carry the claim), then written locally.
func (h *Handler) ServeUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Identity.SetUserRole(ctx, userID, models.RoleEducator); err != nil {
		respond.Error(w, h.Log, "role mirror to provider failed", err)
		return
	}
	if err := h.Users.SetRole(ctx, userID, models.RoleEducator); err != nil {
		respond.Error(w, h.Log, "role update failed", err)
		return
	}
	respond.Message(w, "You can publish a course now")
}

// ServeAddCourse handles POST /api/educator/add-course.
//
// Multipart form: a "courseData" field holding the course JSON and an
// "image" file for the thumbnail. The description HTML is sanitized
// before storage; the thumbnail goes to the media store and only its URL
// is kept on the course.
func (h *Handler) ServeAddCourse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Fail(w, "Invalid Details")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respond.Fail(w, "Thumbnail Not Attached")
		return
	}
	defer file.Close()

	var course models.Course
	if err := json.Unmarshal([]byte(r.FormValue("courseData")), &course); err != nil {
		respond.Fail(w, "Invalid Details")
		return
	}
	course.EducatorID = userID
	course.Description = h.sanitizer.Sanitize(course.Description)

	created, err := h.Courses.Create(ctx, course)
	if err != nil {
		respond.Error(w, h.Log, "course create failed", err)
		return
	}

	url, err := h.Media.PutImage(ctx, header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		respond.Error(w, h.Log, "thumbnail upload failed", err)
		return
	}
	if err := h.Courses.SetThumbnail(ctx, created.ID, url); err != nil {
		respond.Error(w, h.Log, "thumbnail update failed", err)
		return
	}

	respond.Message(w, "Course Added")
}

// ServeCourses handles GET /api/educator/courses.
//
// Returns {success:true, courses} with every course the caller owns,
// drafts included, newest first.
func (h *Handler) ServeCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	courses, err := h.Courses.ListByEducator(ctx, userID)
	if err != nil {
		respond.Error(w, h.Log, "educator courses failed", err)
		return
	}
	respond.OK(w, respond.M{"courses": courses})
}

// studentSummary is the trimmed student view shown on the dashboard and
// the enrolled-students list.
type studentSummary struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type enrollmentEntry struct {
	CourseTitle string         `json:"courseTitle"`
	Student     studentSummary `json:"student"`
	// EnrollmentDate uses the student record's creation time as a proxy;
	// per-enrollment timestamps are not stored.
	EnrollmentDate time.Time `json:"enrollmentDate"`
}

// ServeDashboard handles GET /api/educator/dashboard.
//
// Returns aggregate numbers plus the latest enrollments:
//
//	{ "success":true, "dashboardData": {
//	    "totalEarnings":0, "totalCourses":N, "totalEnrollments":N,
//	    "enrolledStudentsData":[{courseTitle, student}, ...] } }
//
// totalEarnings is always 0: the platform has no payments, the field is
// kept so existing dashboard clients render.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entries, totalCourses, err := h.collectEnrollments(ctx, userID)
	if err != nil {
		respond.Error(w, h.Log, "dashboard failed", err)
		return
	}

	totalEnrollments := len(entries)
	if len(entries) > dashboardStudentLimit {
		entries = entries[:dashboardStudentLimit]
	}

	respond.OK(w, respond.M{"dashboardData": respond.M{
		"totalEarnings":        0,
		"totalCourses":         totalCourses,
		"totalEnrollments":     totalEnrollments,
		"enrolledStudentsData": entries,
	}})
}

// ServeEnrolledStudents handles GET /api/educator/enrolled-students.
//
// Returns {success:true, enrolledStudents} with one entry per
// (student, course) pair across the educator's courses, most recent
// first.
func (h *Handler) ServeEnrolledStudents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	userID, ok := auth.UserID(r)
	if !ok {
		respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entries, _, err := h.collectEnrollments(ctx, userID)
	if err != nil {
		respond.Error(w, h.Log, "enrolled students failed", err)
		return
	}
	respond.OK(w, respond.M{"enrolledStudents": entries})
}

// collectEnrollments flattens the educator's course rosters into
// (courseTitle, student) pairs, newest student record first. Roster IDs
// whose user record was deleted are skipped.
func (h *Handler) collectEnrollments(ctx context.Context, educatorID string) ([]enrollmentEntry, int, error) {
	courses, err := h.Courses.ListByEducator(ctx, educatorID)
	if err != nil {
		return nil, 0, err
	}

	idSet := map[string]struct{}{}
	for _, c := range courses {
		for _, sid := range c.EnrolledStudents {
			idSet[sid] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	students, err := h.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[string]models.User, len(students))
	for _, u := range students {
		byID[u.ID] = u
	}

	entries := []enrollmentEntry{}
	for _, c := range courses {
		for _, sid := range c.EnrolledStudents {
			u, ok := byID[sid]
			if !ok {
				continue
			}
			entries = append(entries, enrollmentEntry{
				CourseTitle: c.Title,
				Student: studentSummary{
					ID:        u.ID,
					Name:      u.Name,
					ImageURL:  u.ImageURL,
					CreatedAt: u.CreatedAt,
				},
				EnrollmentDate: u.CreatedAt,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Student.CreatedAt.After(entries[j].Student.CreatedAt)
	})
	return entries, len(courses), nil
}
