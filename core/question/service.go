package question

import (
	"context"
	"errors"
	"time"

	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/user"
)

var (
	// errors
	ErrNotFound    = errors.New("question not found")
	ErrNotAssigned = errors.New("not authorized to answer this question")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		GetQuestionByID(ctx context.Context, id string) (Question, error)
		// Query* methods return questions newest first.
		QueryStudentQuestions(ctx context.Context, studentID string) ([]Question, error)
		QueryTeacherQuestions(ctx context.Context, teacherID string) ([]Question, error)
		QueryCourseQuestions(ctx context.Context, courseID string) ([]Question, error)
		AnswerQuestion(ctx context.Context, id, answer string, at time.Time) (Question, error)
	}

	// CourseGetter resolves the course a question is about.
	CourseGetter interface {
		GetCourseByID(ctx context.Context, id string) (course.Course, error)
	}

	Service struct {
		repo    Repository
		courses CourseGetter
	}
)

func NewService(repo Repository, courses CourseGetter) *Service {
	return &Service{repo: repo, courses: courses}
}

// Ask creates a question directed at the course's instructor.
func (svc *Service) Ask(ctx context.Context, student user.User, nq NewQuestion) (Question, error) {
	crs, err := svc.courses.GetCourseByID(ctx, nq.CourseID)
	if err != nil {
		return Question{}, err // course.ErrNotFound passes through
	}
	q := Question{
		CourseID:    crs.ID,
		CourseTitle: crs.Title,
		StudentID:   student.ID,
		StudentName: student.Username,
		TeacherID:   crs.InstructorID,
		TeacherName: crs.InstructorName,
		Question:    nq.Question,
		CreatedAt:   NowFunc().UTC(),
	}
	return svc.repo.CreateQuestion(ctx, q)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Question, error) {
	return svc.repo.GetQuestionByID(ctx, id)
}

func (svc *Service) QueryForStudent(ctx context.Context, studentID string) ([]Question, error) {
	return svc.repo.QueryStudentQuestions(ctx, studentID)
}

func (svc *Service) QueryForTeacher(ctx context.Context, teacherID string) ([]Question, error) {
	return svc.repo.QueryTeacherQuestions(ctx, teacherID)
}

func (svc *Service) QueryForCourse(ctx context.Context, courseID string) ([]Question, error) {
	return svc.repo.QueryCourseQuestions(ctx, courseID)
}

// Answer records the assigned teacher's answer and its timestamp.
func (svc *Service) Answer(ctx context.Context, teacherID, id string, aq AnswerQuestion) (Question, error) {
	q, err := svc.repo.GetQuestionByID(ctx, id)
	if err != nil {
		return Question{}, err
	}
	if q.TeacherID != teacherID {
		return Question{}, ErrNotAssigned
	}
	return svc.repo.AnswerQuestion(ctx, id, aq.Answer, NowFunc().UTC())
}
