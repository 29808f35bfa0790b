// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Index creation is idempotent; errors are
aggregated so every problem is visible and startup can fail fast.

The unique (user_id, course_id) index on course_progress is load-bearing:
it is what guarantees at most one progress record per pair when two
mark-complete requests race to create it.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCourses(ctx, db); err != nil {
		problems = append(problems, "courses: "+err.Error())
	}
	if err := ensureCourseProgress(ctx, db); err != nil {
		problems = append(problems, "course_progress: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_1"),
		},
		{
			Keys:    bson.D{{Key: "enrolled_courses", Value: 1}},
			Options: options.Index().SetName("enrolled_courses_1"),
		},
	})
}

func ensureCourses(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("courses"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "educator", Value: 1}},
			Options: options.Index().SetName("educator_1"),
		},
		{
			Keys:    bson.D{{Key: "course_title_ci", Value: 1}},
			Options: options.Index().SetName("course_title_ci_1"),
		},
		{
			Keys:    bson.D{{Key: "is_published", Value: 1}},
			Options: options.Index().SetName("is_published_1"),
		},
	})
}

func ensureCourseProgress(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("course_progress"), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "course_id", Value: 1},
			},
			Options: options.Index().SetName("user_course_unique").SetUnique(true),
		},
	})
}

func createAll(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	zap.L().Info("ensured indexes",
		zap.String("collection", coll.Name()),
		zap.Strings("indexes", names))
	return nil
}
