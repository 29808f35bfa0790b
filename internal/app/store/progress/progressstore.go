package progressstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/learnhub/internal/domain/models"
)

// Store manages course_progress documents: exactly one per
// (user_id, course_id), enforced by a unique compound index. The
// completed-lecture list has membership-only semantics and never shrinks.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("course_progress")}
}

// Get loads the progress record for (userID, courseID). Returns
// mongo.ErrNoDocuments when the user has not completed anything yet;
// callers surface that as a null record with success, not an error.
func (s *Store) Get(ctx context.Context, userID string, courseID primitive.ObjectID) (*models.CourseProgress, error) {
	var p models.CourseProgress
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "course_id": courseID}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkComplete records lectureID as completed for (userID, courseID),
// creating the record lazily on first completion. Re-marking an already
// completed lecture is a no-op success reported through the returned
// flag. $addToSet keeps the set duplicate-free even when two requests
// race past the read.
func (s *Store) MarkComplete(ctx context.Context, userID string, courseID primitive.ObjectID, lectureID string) (already bool, err error) {
	filter := bson.M{"user_id": userID, "course_id": courseID}

	var p models.CourseProgress
	err = s.c.FindOne(ctx, filter).Decode(&p)
	switch {
	case err == mongo.ErrNoDocuments:
		err = s.createWith(ctx, filter, lectureID)
		if wafflemongo.IsDup(err) {
			// Lost a creation race; the record exists now, so add normally.
			return false, s.addLecture(ctx, filter, lectureID)
		}
		return false, err
	case err != nil:
		return false, err
	}

	if p.HasLecture(lectureID) {
		return true, nil
	}
	return false, s.addLecture(ctx, filter, lectureID)
}

func (s *Store) createWith(ctx context.Context, filter bson.M, lectureID string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx, filter,
		bson.M{
			"$addToSet": bson.M{"lecture_completed": lectureID},
			"$setOnInsert": bson.M{
				"completed":  false,
				"created_at": now,
				"updated_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) addLecture(ctx context.Context, filter bson.M, lectureID string) error {
	_, err := s.c.UpdateOne(ctx, filter,
		bson.M{
			"$addToSet": bson.M{"lecture_completed": lectureID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

// SetCompleted flips the all-lectures-done flag. Derived by the handler
// from the course's lecture count; progress itself never decreases.
func (s *Store) SetCompleted(ctx context.Context, userID string, courseID primitive.ObjectID, completed bool) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "course_id": courseID},
		bson.M{"$set": bson.M{"completed": completed, "updated_at": time.Now().UTC()}},
	)
	return err
}
