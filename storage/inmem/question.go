package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/question"
)

type questionRepository struct {
	db *DB
}

func NewQuestionRepository(db *DB) question.Repository {
	return &questionRepository{db: db}
}

func (r *questionRepository) query(match func(question.Question) bool) []question.Question {
	res := make([]question.Question, 0)
	for _, q := range r.db.questions {
		if match(*q) {
			res = append(res, *q)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (r *questionRepository) CreateQuestion(_ context.Context, q question.Question) (question.Question, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	q.ID = uuid.NewString()
	r.db.questions[q.ID] = &q
	return q, nil
}

func (r *questionRepository) GetQuestionByID(_ context.Context, id string) (question.Question, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if q, ok := r.db.questions[id]; ok {
		return *q, nil
	}
	return question.Question{}, question.ErrNotFound
}

func (r *questionRepository) QueryStudentQuestions(_ context.Context, studentID string) ([]question.Question, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(q question.Question) bool { return q.StudentID == studentID }), nil
}

func (r *questionRepository) QueryTeacherQuestions(_ context.Context, teacherID string) ([]question.Question, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(q question.Question) bool { return q.TeacherID == teacherID }), nil
}

func (r *questionRepository) QueryCourseQuestions(_ context.Context, courseID string) ([]question.Question, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(q question.Question) bool { return q.CourseID == courseID }), nil
}

func (r *questionRepository) AnswerQuestion(_ context.Context, id, answer string, at time.Time) (question.Question, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	q, ok := r.db.questions[id]
	if !ok {
		return question.Question{}, question.ErrNotFound
	}
	q.Answer = answer
	q.AnsweredAt = &at
	return *q, nil
}
