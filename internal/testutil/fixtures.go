package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/learnhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user record the way the identity webhook would.
func (f *Fixtures) CreateUser(ctx context.Context, id, name, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:              id,
		Name:            name,
		Email:           fmt.Sprintf("%s@test.learnhub.dev", id),
		ImageURL:        "https://img.test.learnhub.dev/" + id + ".png",
		Role:            role,
		EnrolledCourses: []primitive.ObjectID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateStudent inserts a student user.
func (f *Fixtures) CreateStudent(ctx context.Context, id, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, id, name, models.RoleStudent)
}

// CreateEducator inserts an educator user.
func (f *Fixtures) CreateEducator(ctx context.Context, id, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, id, name, models.RoleEducator)
}

// CreateCourse inserts a published course owned by educatorID with one
// chapter per entry of lectureCounts, holding that many lectures.
func (f *Fixtures) CreateCourse(ctx context.Context, title, educatorID string, lectureCounts ...int) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	course := models.Course{
		ID:               primitive.NewObjectID(),
		Title:            title,
		TitleCI:          text.Fold(title),
		Description:      "<p>Test course description</p>",
		EducatorID:       educatorID,
		Published:        true,
		Chapters:         []models.Chapter{},
		EnrolledStudents: []string{},
		Ratings:          []models.CourseRating{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for ci, n := range lectureCounts {
		ch := models.Chapter{
			ChapterID: fmt.Sprintf("ch-%d", ci+1),
			Order:     ci + 1,
			Title:     fmt.Sprintf("Chapter %d", ci+1),
			Lectures:  []models.Lecture{},
		}
		for li := 0; li < n; li++ {
			preview := li == 0 // first lecture of each chapter is a free preview
			ch.Lectures = append(ch.Lectures, models.Lecture{
				LectureID:   fmt.Sprintf("lec-%d-%d", ci+1, li+1),
				Title:       fmt.Sprintf("Lecture %d.%d", ci+1, li+1),
				Duration:    10,
				VideoURL:    "https://youtu.be/dQw4w9WgXcQ",
				PreviewFree: preview,
				Order:       li + 1,
			})
		}
		course.Chapters = append(course.Chapters, ch)
	}

	if _, err := f.db.Collection("courses").InsertOne(ctx, course); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return course
}

// Enroll wires both sides of an enrollment directly, bypassing the API.
func (f *Fixtures) Enroll(ctx context.Context, user models.User, course models.Course) {
	f.t.Helper()

	if _, err := f.db.Collection("users").UpdateOne(ctx,
		map[string]any{"_id": user.ID},
		map[string]any{"$addToSet": map[string]any{"enrolled_courses": course.ID}},
	); err != nil {
		f.t.Fatalf("failed to enroll user side: %v", err)
	}
	if _, err := f.db.Collection("courses").UpdateOne(ctx,
		map[string]any{"_id": course.ID},
		map[string]any{"$addToSet": map[string]any{"enrolled_students": user.ID}},
	); err != nil {
		f.t.Fatalf("failed to enroll course side: %v", err)
	}
}
