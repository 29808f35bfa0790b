// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Every user starts as a student; educators are
// promoted through the educator API and mirrored into the identity
// provider's public metadata.
const (
	RoleStudent  = "student"
	RoleEducator = "educator"
)

// User represents students and educators.
//
// NOTE:
//   - The _id is the identity provider's user ID (a string), not an
//     ObjectID. Records are provisioned by the identity webhook, so a
//     signed-in user may briefly have no record here.
//   - EnrolledCourses has set semantics: a course ID appears at most once
//     and is only ever added with $addToSet.
type User struct {
	ID              string               `bson:"_id" json:"_id"`
	Name            string               `bson:"name" json:"name"`
	Email           string               `bson:"email" json:"email"`
	ImageURL        string               `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Role            string               `bson:"role" json:"role"` // student | educator
	EnrolledCourses []primitive.ObjectID `bson:"enrolled_courses" json:"enrolledCourses"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsEnrolled reports whether the user's enrolled-course list contains id.
func (u *User) IsEnrolled(id primitive.ObjectID) bool {
	for _, c := range u.EnrolledCourses {
		if c == id {
			return true
		}
	}
	return false
}
