package coursestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/learnhub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

var (
	errMissingTitle    = errors.New("course title is required")
	errMissingEducator = errors.New("course educator is required")
)

// catalogProjection hides the content tree and the enrollment roster
// from catalog listings; both are only served from the detail endpoint.
var catalogProjection = bson.M{
	"course_content":    0,
	"enrolled_students": 0,
}

// Create inserts a new course after normalizing fields. The description
// is stored as-is; sanitization happens at the API boundary where the
// educator's HTML comes in.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return models.Course{}, errMissingTitle
	}
	if c.EducatorID == "" {
		return models.Course{}, errMissingEducator
	}

	c.ID = primitive.NewObjectID()
	c.TitleCI = text.Fold(c.Title)
	if c.Chapters == nil {
		c.Chapters = []models.Chapter{}
	}
	c.EnrolledStudents = []string{}
	c.Ratings = []models.CourseRating{}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// GetByID loads a course by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListPublished returns all published courses without their content tree
// or enrollment roster.
func (s *Store) ListPublished(ctx context.Context) ([]models.Course, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"is_published": true},
		options.Find().SetProjection(catalogProjection).SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	courses := []models.Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListByIDs returns the courses for ids, preserving the order of ids.
// Missing IDs are skipped, not errors: a course deleted after enrollment
// should not break the user's list.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var found []models.Course
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	ordered := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// ListByEducator returns every course owned by educatorID, newest first.
func (s *Store) ListByEducator(ctx context.Context, educatorID string) ([]models.Course, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"educator": educatorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	courses := []models.Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// AddEnrolledStudent adds userID to the course roster with set semantics
// ($addToSet, so racing enrollments stay idempotent). Reports whether
// the roster actually changed.
func (s *Store) AddEnrolledStudent(ctx context.Context, courseID primitive.ObjectID, userID string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": courseID},
		bson.M{"$addToSet": bson.M{"enrolled_students": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount > 0, nil
}

// UpsertRating records a user's rating with one-entry-per-user
// semantics: an existing entry is overwritten in place, otherwise a new
// entry is appended. The display average is always recomputed from the
// full list at read time, never stored.
func (s *Store) UpsertRating(ctx context.Context, courseID primitive.ObjectID, userID string, rating int) error {
	// Overwrite in place if this user already rated.
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": courseID, "course_ratings.user_id": userID},
		bson.M{"$set": bson.M{
			"course_ratings.$.rating": rating,
			"updated_at":              time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// First rating from this user.
	res, err = s.c.UpdateOne(ctx,
		bson.M{"_id": courseID},
		bson.M{
			"$push": bson.M{"course_ratings": models.CourseRating{UserID: userID, Rating: rating}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetThumbnail records the stable URL the media host returned for the
// course thumbnail.
func (s *Store) SetThumbnail(ctx context.Context, courseID primitive.ObjectID, url string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": courseID},
		bson.M{"$set": bson.M{"course_thumbnail": url, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
