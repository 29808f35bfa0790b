package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/learnhub/internal/domain/models"
)

// Terminology: User Identifiers
//   - The _id of a user document is the identity provider's user ID, a
//     string like "user_2abc...". There is no separate ObjectID for users.

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var errBadRole = errors.New(`role must be "student" or "educator"`)

// GetByID loads a user by identity-provider ID. Returns
// mongo.ErrNoDocuments when the webhook has not provisioned the record
// yet; callers treat that as "User Not Found", not as a server fault.
func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert creates or refreshes a user record from identity webhook data.
// Profile fields are overwritten; role and the enrolled-course list are
// only initialized on insert so a profile update from the provider never
// clobbers local state.
func (s *Store) Upsert(ctx context.Context, u models.User) error {
	if u.ID == "" {
		return errors.New("user id is required")
	}

	now := time.Now().UTC()
	role := u.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleEducator {
		return errBadRole
	}

	set := bson.M{
		"name":       strings.TrimSpace(u.Name),
		"email":      strings.ToLower(strings.TrimSpace(u.Email)),
		"image_url":  u.ImageURL,
		"updated_at": now,
	}
	setOnInsert := bson.M{
		"role":             role,
		"enrolled_courses": []primitive.ObjectID{},
		"created_at":       now,
	}

	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	)
	return err
}

// Delete removes a user record (identity webhook user.deleted). Returns
// the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetRole updates the user's role.
func (s *Store) SetRole(ctx context.Context, id, role string) error {
	if role != models.RoleStudent && role != models.RoleEducator {
		return errBadRole
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}},
	)
	return err
}

// ListByIDs returns the users for ids in one query. Missing IDs are
// skipped: a roster can reference users deleted by the identity webhook.
func (s *Store) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddEnrolledCourse adds courseID to the user's enrolled-course list with
// set semantics: a blind list push is not idempotent, so $addToSet is
// used to keep the list duplicate-free even when two enrollment requests
// race. Reports whether the list actually changed.
func (s *Store) AddEnrolledCourse(ctx context.Context, userID string, courseID primitive.ObjectID) (bool, error) {
	// No $set alongside: ModifiedCount must reflect the set add alone so
	// "already enrolled" is detectable after a race.
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"enrolled_courses": courseID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount > 0, nil
}
