package course

import (
	"context"
	"errors"
	"time"

	"github.com/darasahub/darasa/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// QueryAllCourses returns all courses, newest first.
		QueryAllCourses(ctx context.Context) ([]Course, error)
		QueryCoursesByInstructor(ctx context.Context, instructorID string) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new course stamped with the instructor's identity.
func (svc *Service) Create(ctx context.Context, instructor user.User, nc NewCourse) (Course, error) {
	now := NowFunc().UTC()
	crs := Course{
		Title:          nc.Title,
		Description:    nc.Description,
		Type:           nc.Type,
		Content:        nc.Content,
		TechStack:      nc.TechStack,
		InstructorID:   instructor.ID,
		InstructorName: instructor.Username,
		Thumbnail:      nc.Thumbnail,
		Duration:       nc.Duration,
		Difficulty:     nc.Difficulty,
		Deadline:       nc.Deadline,
		Status:         nc.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if crs.Difficulty == "" {
		crs.Difficulty = DifficultyBeginner
	}
	if crs.Status == "" {
		crs.Status = StatusDraft
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) QueryByInstructor(ctx context.Context, instructorID string) ([]Course, error) {
	return svc.repo.QueryCoursesByInstructor(ctx, instructorID)
}

func (svc *Service) Update(ctx context.Context, orig Course, uc UpdateCourse) (Course, error) {
	crs := orig
	if uc.Title != "" {
		crs.Title = uc.Title
	}
	if uc.Description != "" {
		crs.Description = uc.Description
	}
	if uc.Type != "" {
		crs.Type = uc.Type
	}
	if uc.Content != "" {
		crs.Content = uc.Content
	}
	if uc.TechStack != nil {
		crs.TechStack = uc.TechStack
	}
	if uc.Thumbnail != "" {
		crs.Thumbnail = uc.Thumbnail
	}
	if uc.Duration != nil {
		crs.Duration = *uc.Duration
	}
	if uc.Difficulty != "" {
		crs.Difficulty = uc.Difficulty
	}
	if uc.Deadline != nil {
		crs.Deadline = uc.Deadline
	}
	if uc.Status != "" {
		crs.Status = uc.Status
	}
	crs.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}
