package question

import (
	"time"

	"github.com/darasahub/darasa/core"
)

// Question is a student's question about a course, directed at the course's
// instructor. Course and participant names are denormalized at creation.
type Question struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	CourseTitle string     `json:"course_title"`
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name"`
	TeacherID   string     `json:"teacher_id"`
	TeacherName string     `json:"teacher_name"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer,omitempty"`
	CreatedAt   time.Time  `json:"created_at"` // UTC
	AnsweredAt  *time.Time `json:"answered_at,omitempty"`
}

func (q *Question) Answered() bool { return q.AnsweredAt != nil }

// NewQuestion contains information needed to ask a question.
type NewQuestion struct {
	CourseID string `json:"course_id" validate:"required"`
	Question string `json:"question" validate:"required"`
}

func (nq *NewQuestion) Validate() error {
	nq.Question = core.CleanString(nq.Question)
	return core.Validate.Struct(nq)
}

// AnswerQuestion contains a teacher's answer.
type AnswerQuestion struct {
	Answer string `json:"answer" validate:"required"`
}

func (aq *AnswerQuestion) Validate() error {
	aq.Answer = core.CleanString(aq.Answer)
	return core.Validate.Struct(aq)
}
