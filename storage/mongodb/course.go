package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahub/darasa/core/course"
)

type courseDoc struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	Title          string        `bson:"title"`
	Description    string        `bson:"description"`
	Type           string        `bson:"type"`
	Content        string        `bson:"content"`
	TechStack      []string      `bson:"techStack,omitempty"`
	InstructorID   bson.ObjectID `bson:"instructorId"`
	InstructorName string        `bson:"instructorName"`
	Thumbnail      string        `bson:"thumbnail,omitempty"`
	Duration       int           `bson:"duration"`
	Difficulty     string        `bson:"difficulty"`
	Rating         float64       `bson:"rating"`
	RatingCount    int           `bson:"ratingCount"`
	Deadline       *time.Time    `bson:"deadline,omitempty"`
	Status         string        `bson:"status"`
	CreatedAt      time.Time     `bson:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt"`
}

func (d courseDoc) toCourse() course.Course {
	return course.Course{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Description:    d.Description,
		Type:           d.Type,
		Content:        d.Content,
		TechStack:      d.TechStack,
		InstructorID:   d.InstructorID.Hex(),
		InstructorName: d.InstructorName,
		Thumbnail:      d.Thumbnail,
		Duration:       d.Duration,
		Difficulty:     d.Difficulty,
		Rating:         d.Rating,
		RatingCount:    d.RatingCount,
		Deadline:       d.Deadline,
		Status:         d.Status,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func newCourseDoc(crs course.Course) (courseDoc, error) {
	instructorID, err := oidFromHex(crs.InstructorID, course.ErrNotFound)
	if err != nil {
		return courseDoc{}, err
	}
	doc := courseDoc{
		Title:          crs.Title,
		Description:    crs.Description,
		Type:           crs.Type,
		Content:        crs.Content,
		TechStack:      crs.TechStack,
		InstructorID:   instructorID,
		InstructorName: crs.InstructorName,
		Thumbnail:      crs.Thumbnail,
		Duration:       crs.Duration,
		Difficulty:     crs.Difficulty,
		Rating:         crs.Rating,
		RatingCount:    crs.RatingCount,
		Deadline:       crs.Deadline,
		Status:         crs.Status,
		CreatedAt:      crs.CreatedAt,
		UpdatedAt:      crs.UpdatedAt,
	}
	if crs.ID != "" {
		oid, err := oidFromHex(crs.ID, course.ErrNotFound)
		if err != nil {
			return courseDoc{}, err
		}
		doc.ID = oid
	}
	return doc, nil
}

type courseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) course.Repository {
	return &courseRepository{coll: db.Collection(coursesColl)}
}

func (r *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	doc, err := newCourseDoc(crs)
	if err != nil {
		return course.Course{}, err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	crs.ID = res.InsertedID.(bson.ObjectID).Hex()
	return crs, nil
}

func (r *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	oid, err := oidFromHex(id, course.ErrNotFound)
	if err != nil {
		return course.Course{}, err
	}
	var doc courseDoc
	if err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "finding course")
	}
	return doc.toCourse(), nil
}

func (r *courseRepository) queryCourses(ctx context.Context, filter bson.M) ([]course.Course, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	var docs []courseDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding courses")
	}
	courses := make([]course.Course, len(docs))
	for i, doc := range docs {
		courses[i] = doc.toCourse()
	}
	return courses, nil
}

func (r *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	return r.queryCourses(ctx, bson.M{})
}

func (r *courseRepository) QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]course.Course, error) {
	oid, err := oidFromHex(instructorID, course.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return r.queryCourses(ctx, bson.M{"instructorId": oid})
}

func (r *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	doc, err := newCourseDoc(crs)
	if err != nil {
		return course.Course{}, err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if res.MatchedCount == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (r *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	oid, err := oidFromHex(id, course.ErrNotFound)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if res.DeletedCount == 0 {
		return course.ErrNotFound
	}
	return nil
}
