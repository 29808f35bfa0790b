// internal/domain/models/progress.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CourseProgress records which lectures of a course a user has watched.
// Exactly one document per (user_id, course_id), enforced by a unique
// compound index. Created lazily on the first completed lecture;
// LecturesCompleted has membership-only semantics and never shrinks.
type CourseProgress struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID            string             `bson:"user_id" json:"userId"`
	CourseID          primitive.ObjectID `bson:"course_id" json:"courseId"`
	Completed         bool               `bson:"completed" json:"completed"`
	LecturesCompleted []string           `bson:"lecture_completed" json:"lectureCompleted"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasLecture reports whether lectureID is already in the completed set.
func (p *CourseProgress) HasLecture(lectureID string) bool {
	for _, id := range p.LecturesCompleted {
		if id == lectureID {
			return true
		}
	}
	return false
}
