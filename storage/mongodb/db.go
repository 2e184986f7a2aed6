package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/darasahub/darasa/core"
)

// Collections
const (
	usersColl         = "users"
	coursesColl       = "courses"
	progressColl      = "progress"
	notificationsColl = "notifications"
	questionsColl     = "questions"
)

func Open(conf *core.Config) (*mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = ping(client); err != nil {
		return nil, err
	}
	return client.Database(conf.Database.Name), nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = client.Ping(ctx, readpref.Primary())
		cancel()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

// EnsureIndexes creates the indexes the application relies on. The unique
// index on users.email is what actually guards concurrent registrations;
// the application-level pre-check only exists for a friendly error message.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersColl).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "googleId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return errors.Wrap(err, "creating user indexes")
	}

	_, err = db.Collection(progressColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "courseId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "creating progress indexes")
	}

	_, err = db.Collection(notificationsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "to", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return errors.Wrap(err, "creating notification indexes")
	}

	_, err = db.Collection(questionsColl).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "teacherId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "courseId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return errors.Wrap(err, "creating question indexes")
}

// oidFromHex parses an ObjectID hex string. Malformed ids behave like
// missing documents rather than server errors.
func oidFromHex(id string, notFound error) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, notFound
	}
	return oid, nil
}
