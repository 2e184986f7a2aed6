package question

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/user"
)

type fakeRepo struct {
	seq       int
	questions map[string]Question
}

func newFakeRepo() *fakeRepo { return &fakeRepo{questions: make(map[string]Question)} }

func (r *fakeRepo) CreateQuestion(_ context.Context, q Question) (Question, error) {
	r.seq++
	q.ID = strconv.Itoa(r.seq)
	r.questions[q.ID] = q
	return q, nil
}

func (r *fakeRepo) GetQuestionByID(_ context.Context, id string) (Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (r *fakeRepo) QueryStudentQuestions(_ context.Context, studentID string) ([]Question, error) {
	var res []Question
	for _, q := range r.questions {
		if q.StudentID == studentID {
			res = append(res, q)
		}
	}
	return res, nil
}

func (r *fakeRepo) QueryTeacherQuestions(_ context.Context, teacherID string) ([]Question, error) {
	var res []Question
	for _, q := range r.questions {
		if q.TeacherID == teacherID {
			res = append(res, q)
		}
	}
	return res, nil
}

func (r *fakeRepo) QueryCourseQuestions(_ context.Context, courseID string) ([]Question, error) {
	var res []Question
	for _, q := range r.questions {
		if q.CourseID == courseID {
			res = append(res, q)
		}
	}
	return res, nil
}

func (r *fakeRepo) AnswerQuestion(_ context.Context, id, answer string, at time.Time) (Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	q.Answer = answer
	q.AnsweredAt = &at
	r.questions[id] = q
	return q, nil
}

// fakeCourses knows a fixed set of courses.
type fakeCourses map[string]course.Course

func (f fakeCourses) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	crs, ok := f[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func mockNow(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2023, 5, 12, 10, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })
	return now
}

func TestService_Ask(t *testing.T) {
	crs := course.Course{
		ID:             "c1",
		Title:          "Intro to Go",
		InstructorID:   "t1",
		InstructorName: "prof",
	}
	svc := NewService(newFakeRepo(), fakeCourses{crs.ID: crs})
	now := mockNow(t)
	ctx := context.Background()

	student := user.User{ID: "s1", Username: "hero", Role: user.RoleStudent}

	if _, err := svc.Ask(ctx, student, NewQuestion{CourseID: "nope", Question: "Why?"}); err != course.ErrNotFound {
		t.Errorf("Ask() about an unknown course error = %v; want %v", err, course.ErrNotFound)
	}

	q, err := svc.Ask(ctx, student, NewQuestion{CourseID: crs.ID, Question: "What is a goroutine?"})
	if err != nil {
		t.Fatalf("Ask() failed: %v", err)
	}
	if q.CourseTitle != crs.Title {
		t.Errorf("Ask() course title = %v; want %v", q.CourseTitle, crs.Title)
	}
	if q.StudentID != student.ID || q.StudentName != student.Username {
		t.Errorf("Ask() student = %v/%v", q.StudentID, q.StudentName)
	}
	if q.TeacherID != crs.InstructorID || q.TeacherName != crs.InstructorName {
		t.Errorf("Ask() teacher = %v/%v; want the course instructor", q.TeacherID, q.TeacherName)
	}
	if !q.CreatedAt.Equal(now) {
		t.Errorf("Ask() CreatedAt = %v; want %v", q.CreatedAt, now)
	}
	if q.Answered() {
		t.Error("Ask() created a question already answered")
	}
}

func TestService_Answer(t *testing.T) {
	crs := course.Course{ID: "c1", Title: "Intro to Go", InstructorID: "t1", InstructorName: "prof"}
	svc := NewService(newFakeRepo(), fakeCourses{crs.ID: crs})
	now := mockNow(t)
	ctx := context.Background()

	student := user.User{ID: "s1", Username: "hero"}
	q, err := svc.Ask(ctx, student, NewQuestion{CourseID: crs.ID, Question: "What is a channel?"})
	if err != nil {
		t.Fatalf("Ask() failed: %v", err)
	}

	if _, err = svc.Answer(ctx, "other-teacher", q.ID, AnswerQuestion{Answer: "nope"}); err != ErrNotAssigned {
		t.Errorf("Answer() by another teacher error = %v; want %v", err, ErrNotAssigned)
	}
	if _, err = svc.Answer(ctx, crs.InstructorID, "nope", AnswerQuestion{Answer: "nope"}); err != ErrNotFound {
		t.Errorf("Answer() unknown id error = %v; want %v", err, ErrNotFound)
	}

	answered, err := svc.Answer(ctx, crs.InstructorID, q.ID, AnswerQuestion{Answer: "A typed conduit."})
	if err != nil {
		t.Fatalf("Answer() failed: %v", err)
	}
	if answered.Answer != "A typed conduit." {
		t.Errorf("Answer() answer = %v", answered.Answer)
	}
	if !answered.Answered() || !answered.AnsweredAt.Equal(now) {
		t.Errorf("Answer() AnsweredAt = %v; want %v", answered.AnsweredAt, now)
	}
}
