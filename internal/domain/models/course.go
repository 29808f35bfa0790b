// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is the top-level content aggregate: an ordered tree of chapters
// and lectures plus the enrollment roster and ratings.
//
// EnrolledStudents and Ratings both have set semantics per user:
//   - a student ID appears at most once (written with $addToSet)
//   - a user holds at most one rating; re-rating overwrites in place
//
// The display rating is never stored; it is recomputed from Ratings at
// read time (AverageRating).
type Course struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"course_title" json:"courseTitle"`
	TitleCI      string             `bson:"course_title_ci" json:"-"` // lowercase, diacritics-stripped
	Description  string             `bson:"course_description" json:"courseDescription"` // sanitized HTML
	ThumbnailURL string             `bson:"course_thumbnail,omitempty" json:"courseThumbnail,omitempty"`
	EducatorID   string             `bson:"educator" json:"educator"`
	Published    bool               `bson:"is_published" json:"isPublished"`

	Chapters         []Chapter      `bson:"course_content" json:"courseContent"`
	EnrolledStudents []string       `bson:"enrolled_students" json:"enrolledStudents"`
	Ratings          []CourseRating `bson:"course_ratings" json:"courseRatings"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Chapter is an ordered group of lectures within a course.
type Chapter struct {
	ChapterID string    `bson:"chapter_id" json:"chapterId"`
	Order     int       `bson:"chapter_order" json:"chapterOrder"`
	Title     string    `bson:"chapter_title" json:"chapterTitle"`
	Lectures  []Lecture `bson:"chapter_content" json:"chapterContent"`
}

// Lecture is the smallest content unit. VideoURL may be blanked in public
// views when the lecture is not preview-accessible.
type Lecture struct {
	LectureID   string `bson:"lecture_id" json:"lectureId"`
	Title       string `bson:"lecture_title" json:"lectureTitle"`
	Duration    int    `bson:"lecture_duration" json:"lectureDuration"` // minutes
	VideoURL    string `bson:"lecture_url,omitempty" json:"lectureUrl,omitempty"`
	PreviewFree bool   `bson:"is_preview_free" json:"isPreviewFree"`
	Order       int    `bson:"lecture_order" json:"lectureOrder"`
}

// CourseRating is a single user's 1-5 rating of a course.
type CourseRating struct {
	UserID string `bson:"user_id" json:"userId"`
	Rating int    `bson:"rating" json:"rating"`
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// LectureCount sums lecture counts across all chapters.
func (c *Course) LectureCount() int {
	n := 0
	for _, ch := range c.Chapters {
		n += len(ch.Lectures)
	}
	return n
}

// DurationMinutes sums lecture durations across all chapters.
func (c *Course) DurationMinutes() int {
	total := 0
	for _, ch := range c.Chapters {
		for _, l := range ch.Lectures {
			total += l.Duration
		}
	}
	return total
}

// AverageRating returns the arithmetic mean of all ratings, or 0 when the
// course has none.
func (c *Course) AverageRating() float64 {
	if len(c.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range c.Ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(c.Ratings))
}

// CompletionPercent derives the completion percentage for completedCount
// finished lectures. A course with zero lectures reports 0 for any
// completed count, never a division by zero.
func (c *Course) CompletionPercent(completedCount int) float64 {
	total := c.LectureCount()
	if total == 0 {
		return 0
	}
	return float64(completedCount) / float64(total) * 100
}

// HasStudent reports whether userID is on the enrollment roster.
func (c *Course) HasStudent(userID string) bool {
	for _, s := range c.EnrolledStudents {
		if s == userID {
			return true
		}
	}
	return false
}
