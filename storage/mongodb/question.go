package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahub/darasa/core/question"
)

type questionDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	CourseID    bson.ObjectID `bson:"courseId"`
	CourseTitle string        `bson:"courseTitle"`
	StudentID   bson.ObjectID `bson:"studentId"`
	StudentName string        `bson:"studentName"`
	TeacherID   bson.ObjectID `bson:"teacherId"`
	TeacherName string        `bson:"teacherName"`
	Question    string        `bson:"question"`
	Answer      string        `bson:"answer,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt"`
	AnsweredAt  *time.Time    `bson:"answeredAt,omitempty"`
}

func (d questionDoc) toQuestion() question.Question {
	return question.Question{
		ID:          d.ID.Hex(),
		CourseID:    d.CourseID.Hex(),
		CourseTitle: d.CourseTitle,
		StudentID:   d.StudentID.Hex(),
		StudentName: d.StudentName,
		TeacherID:   d.TeacherID.Hex(),
		TeacherName: d.TeacherName,
		Question:    d.Question,
		Answer:      d.Answer,
		CreatedAt:   d.CreatedAt,
		AnsweredAt:  d.AnsweredAt,
	}
}

type questionRepository struct {
	coll *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) question.Repository {
	return &questionRepository{coll: db.Collection(questionsColl)}
}

func (r *questionRepository) CreateQuestion(ctx context.Context, q question.Question) (question.Question, error) {
	courseID, err := oidFromHex(q.CourseID, question.ErrNotFound)
	if err != nil {
		return question.Question{}, err
	}
	studentID, err := oidFromHex(q.StudentID, question.ErrNotFound)
	if err != nil {
		return question.Question{}, err
	}
	teacherID, err := oidFromHex(q.TeacherID, question.ErrNotFound)
	if err != nil {
		return question.Question{}, err
	}
	doc := questionDoc{
		CourseID:    courseID,
		CourseTitle: q.CourseTitle,
		StudentID:   studentID,
		StudentName: q.StudentName,
		TeacherID:   teacherID,
		TeacherName: q.TeacherName,
		Question:    q.Question,
		CreatedAt:   q.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return question.Question{}, errors.Wrap(err, "inserting question")
	}
	q.ID = res.InsertedID.(bson.ObjectID).Hex()
	return q, nil
}

func (r *questionRepository) GetQuestionByID(ctx context.Context, id string) (question.Question, error) {
	oid, err := oidFromHex(id, question.ErrNotFound)
	if err != nil {
		return question.Question{}, err
	}
	var doc questionDoc
	if err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return question.Question{}, question.ErrNotFound
		}
		return question.Question{}, errors.Wrap(err, "finding question")
	}
	return doc.toQuestion(), nil
}

func (r *questionRepository) queryQuestions(ctx context.Context, field, id string) ([]question.Question, error) {
	oid, err := oidFromHex(id, question.ErrNotFound)
	if err != nil {
		return nil, err
	}
	cursor, err := r.coll.Find(ctx, bson.M{field: oid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	var docs []questionDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding questions")
	}
	res := make([]question.Question, len(docs))
	for i, doc := range docs {
		res[i] = doc.toQuestion()
	}
	return res, nil
}

func (r *questionRepository) QueryStudentQuestions(ctx context.Context, studentID string) ([]question.Question, error) {
	return r.queryQuestions(ctx, "studentId", studentID)
}

func (r *questionRepository) QueryTeacherQuestions(ctx context.Context, teacherID string) ([]question.Question, error) {
	return r.queryQuestions(ctx, "teacherId", teacherID)
}

func (r *questionRepository) QueryCourseQuestions(ctx context.Context, courseID string) ([]question.Question, error) {
	return r.queryQuestions(ctx, "courseId", courseID)
}

func (r *questionRepository) AnswerQuestion(ctx context.Context, id, answer string, at time.Time) (question.Question, error) {
	oid, err := oidFromHex(id, question.ErrNotFound)
	if err != nil {
		return question.Question{}, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"answer": answer, "answeredAt": at}}
	var doc questionDoc
	if err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return question.Question{}, question.ErrNotFound
		}
		return question.Question{}, errors.Wrap(err, "answering question")
	}
	return doc.toQuestion(), nil
}
