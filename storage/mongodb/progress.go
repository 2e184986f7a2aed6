package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahub/darasa/core/progress"
)

type progressDoc struct {
	UserID       bson.ObjectID `bson:"userId"`
	CourseID     bson.ObjectID `bson:"courseId"`
	Progress     int           `bson:"progress"`
	Completed    bool          `bson:"completed"`
	LastAccessed time.Time     `bson:"lastAccessed"`
}

func (d progressDoc) toProgress() progress.CourseProgress {
	return progress.CourseProgress{
		UserID:       d.UserID.Hex(),
		CourseID:     d.CourseID.Hex(),
		Progress:     d.Progress,
		Completed:    d.Completed,
		LastAccessed: d.LastAccessed,
	}
}

// studentProgressDoc is the $lookup-joined shape used by instructor views.
type studentProgressDoc struct {
	progressDoc `bson:",inline"`
	User        struct {
		Username string `bson:"username"`
	} `bson:"user"`
}

type progressRepository struct {
	coll *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) progress.Repository {
	return &progressRepository{coll: db.Collection(progressColl)}
}

func (r *progressRepository) ids(cp progress.CourseProgress) (userID, courseID bson.ObjectID, err error) {
	if userID, err = oidFromHex(cp.UserID, progress.ErrNotFound); err != nil {
		return
	}
	courseID, err = oidFromHex(cp.CourseID, progress.ErrNotFound)
	return
}

func (r *progressRepository) UpsertProgress(ctx context.Context, cp progress.CourseProgress) (progress.CourseProgress, error) {
	userID, courseID, err := r.ids(cp)
	if err != nil {
		return progress.CourseProgress{}, err
	}
	filter := bson.M{"userId": userID, "courseId": courseID}
	update := bson.M{"$set": bson.M{
		"progress":     cp.Progress,
		"completed":    cp.Completed,
		"lastAccessed": cp.LastAccessed,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc progressDoc
	if err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return progress.CourseProgress{}, errors.Wrap(err, "upserting progress")
	}
	return doc.toProgress(), nil
}

func (r *progressRepository) GetProgress(ctx context.Context, userID, courseID string) (progress.CourseProgress, error) {
	uid, err := oidFromHex(userID, progress.ErrNotFound)
	if err != nil {
		return progress.CourseProgress{}, err
	}
	cid, err := oidFromHex(courseID, progress.ErrNotFound)
	if err != nil {
		return progress.CourseProgress{}, err
	}
	var doc progressDoc
	if err = r.coll.FindOne(ctx, bson.M{"userId": uid, "courseId": cid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return progress.CourseProgress{}, progress.ErrNotFound
		}
		return progress.CourseProgress{}, errors.Wrap(err, "finding progress")
	}
	return doc.toProgress(), nil
}

func (r *progressRepository) QueryUserProgress(ctx context.Context, userID string) ([]progress.CourseProgress, error) {
	uid, err := oidFromHex(userID, progress.ErrNotFound)
	if err != nil {
		return nil, err
	}
	cursor, err := r.coll.Find(ctx, bson.M{"userId": uid},
		options.Find().SetSort(bson.D{{Key: "lastAccessed", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}
	var docs []progressDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding progress")
	}
	res := make([]progress.CourseProgress, len(docs))
	for i, doc := range docs {
		res[i] = doc.toProgress()
	}
	return res, nil
}

func (r *progressRepository) QueryCourseProgress(ctx context.Context, courseID string) ([]progress.StudentProgress, error) {
	cid, err := oidFromHex(courseID, progress.ErrNotFound)
	if err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"courseId": cid}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastAccessed", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersColl,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregating course progress")
	}
	var docs []studentProgressDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding course progress")
	}
	res := make([]progress.StudentProgress, len(docs))
	for i, doc := range docs {
		res[i] = progress.StudentProgress{
			CourseProgress: doc.toProgress(),
			Username:       doc.User.Username,
		}
	}
	return res, nil
}
