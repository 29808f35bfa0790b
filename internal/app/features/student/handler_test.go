package student_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/learnhub/internal/app/features/student"
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	progressstore "github.com/dalemusser/learnhub/internal/app/store/progress"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/learnhub/internal/testutil"
)

type env struct {
	db       *mongo.Database
	fx       *testutil.Fixtures
	handler  *student.Handler
	courses  *coursestore.Store
	progress *progressstore.Store
}

func setup(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	courses := coursestore.New(db)
	progress := progressstore.New(db)
	return &env{
		db:       db,
		fx:       testutil.NewFixtures(t, db),
		handler:  student.NewHandler(users, courses, progress, zap.NewNop()),
		courses:  courses,
		progress: progress,
	}
}

func (e *env) router() http.Handler {
	r := chi.NewRouter()
	r.Mount("/api/user", student.Routes(e.handler))
	return r
}

func TestServeUserData(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fx.CreateStudent(ctx, "user_stu", "Stu Dent")

	req := testutil.NewAuthenticatedRequest("GET", "/api/user/data", nil, "user_stu", models.RoleStudent)
	rec := httptest.NewRecorder()
	e.router().ServeHTTP(rec, req)

	body := testutil.DecodeEnvelope(t, rec)
	testutil.AssertSuccess(t, body)
	user, _ := body["user"].(map[string]any)
	if user == nil || user["name"] != "Stu Dent" {
		t.Fatalf("user payload wrong: %v", body["user"])
	}
}

func TestServeUserDataNotProvisioned(t *testing.T) {
	e := setup(t)

	req := testutil.NewAuthenticatedRequest("GET", "/api/user/data", nil, "user_ghost", models.RoleStudent)
	rec := httptest.NewRecorder()
	e.router().ServeHTTP(rec, req)

	body := testutil.DecodeEnvelope(t, rec)
	testutil.AssertFailure(t, body, "User Not Found")
}

func TestServeEnroll(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	course := e.fx.CreateCourse(ctx, "Go Basics", edu.ID, 2)

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/enroll",
		map[string]any{"courseId": course.ID.Hex()}, stu.ID, models.RoleStudent)
	rec := httptest.NewRecorder()
	e.router().ServeHTTP(rec, req)

	body := testutil.DecodeEnvelope(t, rec)
	testutil.AssertSuccess(t, body)
	if body["message"] != "Enrollment Successful" {
		t.Fatalf("message: got %v", body["message"])
	}

	// Both sides of the relation must agree.
	gotCourse, err := e.courses.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("course reload: %v", err)
	}
	if !gotCourse.HasStudent(stu.ID) {
		t.Error("course roster missing the student")
	}
	gotUser, err := userstore.New(e.db).GetByID(ctx, stu.ID)
	if err != nil {
		t.Fatalf("user reload: %v", err)
	}
	if !gotUser.IsEnrolled(course.ID) {
		t.Error("user enrolled_courses missing the course")
	}
}

func TestServeEnrollTwiceIsIdempotent(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	course := e.fx.CreateCourse(ctx, "Go Basics", edu.ID, 2)

	router := e.router()
	for i := 0; i < 2; i++ {
		req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/enroll",
			map[string]any{"courseId": course.ID.Hex()}, stu.ID, models.RoleStudent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		body := testutil.DecodeEnvelope(t, rec)
		testutil.AssertSuccess(t, body)
		want := "Enrollment Successful"
		if i == 1 {
			want = "Already Enrolled"
		}
		if body["message"] != want {
			t.Fatalf("attempt %d message: got %v, want %q", i+1, body["message"], want)
		}
	}

	gotCourse, err := e.courses.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("course reload: %v", err)
	}
	if len(gotCourse.EnrolledStudents) != 1 {
		t.Errorf("roster: got %d entries, want 1", len(gotCourse.EnrolledStudents))
	}
	gotUser, err := userstore.New(e.db).GetByID(ctx, stu.ID)
	if err != nil {
		t.Fatalf("user reload: %v", err)
	}
	if len(gotUser.EnrolledCourses) != 1 {
		t.Errorf("enrolled_courses: got %d entries, want 1", len(gotUser.EnrolledCourses))
	}
}

func TestServeEnrollMissingCourse(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/enroll",
		map[string]any{"courseId": "64b000000000000000000000"}, stu.ID, models.RoleStudent)
	rec := httptest.NewRecorder()
	e.router().ServeHTTP(rec, req)

	body := testutil.DecodeEnvelope(t, rec)
	testutil.AssertFailure(t, body, "Data Not Found")
}

func TestServeEnrolledCourses(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	a := e.fx.CreateCourse(ctx, "Alpha", edu.ID, 1)
	b := e.fx.CreateCourse(ctx, "Beta", edu.ID, 1)
	e.fx.Enroll(ctx, stu, a)
	e.fx.Enroll(ctx, stu, b)

	req := testutil.NewAuthenticatedRequest("GET", "/api/user/enrolled-courses", nil, stu.ID, models.RoleStudent)
	rec := httptest.NewRecorder()
	e.router().ServeHTTP(rec, req)

	body := testutil.DecodeEnvelope(t, rec)
	testutil.AssertSuccess(t, body)
	list, _ := body["enrolledCourses"].([]any)
	if len(list) != 2 {
		t.Fatalf("got %d courses, want 2", len(list))
	}
	first, _ := list[0].(map[string]any)
	if first["courseTitle"] != "Alpha" {
		t.Errorf("order: first course is %v, want Alpha", first["courseTitle"])
	}
}

func TestServeUpdateProgress(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	course := e.fx.CreateCourse(ctx, "Go Basics", edu.ID, 2)

	router := e.router()
	payload := map[string]any{"courseId": course.ID.Hex(), "lectureId": "lec-1-1"}

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/update-course-progress", payload, stu.ID, models.RoleStudent)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	body := testutil.DecodeEnvelope(t, rec)
	testutil.AssertSuccess(t, body)
	if body["message"] != "Progress Updated" {
		t.Fatalf("message: got %v", body["message"])
	}

	// Same lecture again: no-op with the distinct message.
	req = testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/update-course-progress", payload, stu.ID, models.RoleStudent)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	body = testutil.DecodeEnvelope(t, rec)
	testutil.AssertSuccess(t, body)
	if body["message"] != "Lecture Already Completed" {
		t.Fatalf("repeat message: got %v", body["message"])
	}

	p, err := e.progress.Get(ctx, stu.ID, course.ID)
	if err != nil {
		t.Fatalf("progress reload: %v", err)
	}
	if len(p.LecturesCompleted) != 1 {
		t.Errorf("lecture_completed: got %d entries, want 1", len(p.LecturesCompleted))
	}
	if p.Completed {
		t.Error("completed flag must stay false with lectures remaining")
	}
}

func TestServeUpdateProgressFlagsCompletion(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	course := e.fx.CreateCourse(ctx, "Tiny Course", edu.ID, 2)

	router := e.router()
	for _, lec := range []string{"lec-1-1", "lec-1-2"} {
		req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/update-course-progress",
			map[string]any{"courseId": course.ID.Hex(), "lectureId": lec}, stu.ID, models.RoleStudent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertSuccess(t, testutil.DecodeEnvelope(t, rec))
	}

	p, err := e.progress.Get(ctx, stu.ID, course.ID)
	if err != nil {
		t.Fatalf("progress reload: %v", err)
	}
	if !p.Completed {
		t.Error("completed flag must flip when every lecture is done")
	}
}

func TestServeGetProgressNullWhenNone(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	course := e.fx.CreateCourse(ctx, "Go Basics", edu.ID, 2)

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/get-course-progress",
		map[string]any{"courseId": course.ID.Hex()}, stu.ID, models.RoleStudent)
	rec := httptest.NewRecorder()
	e.router().ServeHTTP(rec, req)

	body := testutil.DecodeEnvelope(t, rec)
	testutil.AssertSuccess(t, body)
	if v, present := body["progressData"]; !present || v != nil {
		t.Fatalf("progressData: got %v, want explicit null", v)
	}
}

func TestServeAddRating(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	course := e.fx.CreateCourse(ctx, "Go Basics", edu.ID, 2)
	e.fx.Enroll(ctx, stu, course)

	router := e.router()

	// Rate 3, then re-rate 5: one entry, value 5.
	for _, rating := range []int{3, 5} {
		req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/add-rating",
			map[string]any{"courseId": course.ID.Hex(), "rating": rating}, stu.ID, models.RoleStudent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		body := testutil.DecodeEnvelope(t, rec)
		testutil.AssertSuccess(t, body)
		if body["message"] != "Rating added" {
			t.Fatalf("message: got %v", body["message"])
		}
	}

	got, err := e.courses.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("course reload: %v", err)
	}
	if len(got.Ratings) != 1 || got.Ratings[0].Rating != 5 {
		t.Fatalf("ratings: got %+v, want single entry of 5", got.Ratings)
	}
}

func TestServeAddRatingRejectsInvalid(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	course := e.fx.CreateCourse(ctx, "Go Basics", edu.ID, 2)
	e.fx.Enroll(ctx, stu, course)

	router := e.router()
	for _, rating := range []int{0, 6, -1} {
		req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/add-rating",
			map[string]any{"courseId": course.ID.Hex(), "rating": rating}, stu.ID, models.RoleStudent)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertFailure(t, testutil.DecodeEnvelope(t, rec), "Invalid Details")
	}

	got, err := e.courses.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("course reload: %v", err)
	}
	if len(got.Ratings) != 0 {
		t.Errorf("ratings must be untouched, got %+v", got.Ratings)
	}
}

func TestServeAddRatingRequiresEnrollment(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := e.fx.CreateStudent(ctx, "user_stu", "Stu")
	edu := e.fx.CreateEducator(ctx, "user_edu", "Edu")
	course := e.fx.CreateCourse(ctx, "Go Basics", edu.ID, 2)

	req := testutil.NewAuthenticatedJSONRequest(t, "POST", "/api/user/add-rating",
		map[string]any{"courseId": course.ID.Hex(), "rating": 4}, stu.ID, models.RoleStudent)
	rec := httptest.NewRecorder()
	e.router().ServeHTTP(rec, req)

	testutil.AssertFailure(t, testutil.DecodeEnvelope(t, rec), "User is not enrolled in this course.")

	got, err := e.courses.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("course reload: %v", err)
	}
	if len(got.Ratings) != 0 {
		t.Errorf("ratings must be untouched, got %+v", got.Ratings)
	}
}
