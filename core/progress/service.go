package progress

import (
	"context"
	"errors"
	"time"

	"github.com/darasahub/darasa/core"
)

var (
	// errors
	ErrNotFound = errors.New("progress not found")

	errOutOfRange = errors.New("progress must be a number between 0 and 100")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// UpsertProgress creates or replaces the (userID, courseID) record.
		UpsertProgress(ctx context.Context, cp CourseProgress) (CourseProgress, error)
		GetProgress(ctx context.Context, userID, courseID string) (CourseProgress, error)
		// QueryUserProgress returns the user's records, most recently accessed first.
		QueryUserProgress(ctx context.Context, userID string) ([]CourseProgress, error)
		// QueryCourseProgress returns every student's record for a course,
		// joined with usernames, most recently accessed first.
		QueryCourseProgress(ctx context.Context, courseID string) ([]StudentProgress, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record upserts the user's progress for a course. Progress of 100 marks the
// course completed.
func (svc *Service) Record(ctx context.Context, userID, courseID string, pct int) (CourseProgress, error) {
	if pct < 0 || pct > 100 {
		return CourseProgress{}, core.NewValidationError(errOutOfRange,
			core.FieldError{Field: "progress", Error: errOutOfRange.Error()})
	}
	cp := CourseProgress{
		UserID:       userID,
		CourseID:     courseID,
		Progress:     pct,
		Completed:    pct == 100,
		LastAccessed: NowFunc().UTC(),
	}
	return svc.repo.UpsertProgress(ctx, cp)
}

// GetForCourse returns the user's record for a course, or a fresh zero-value
// record when none exists yet.
func (svc *Service) GetForCourse(ctx context.Context, userID, courseID string) (CourseProgress, error) {
	cp, err := svc.repo.GetProgress(ctx, userID, courseID)
	if err == ErrNotFound {
		return CourseProgress{
			UserID:       userID,
			CourseID:     courseID,
			LastAccessed: NowFunc().UTC(),
		}, nil
	}
	return cp, err
}

func (svc *Service) QueryForUser(ctx context.Context, userID string) ([]CourseProgress, error) {
	return svc.repo.QueryUserProgress(ctx, userID)
}

func (svc *Service) QueryForCourse(ctx context.Context, courseID string) ([]StudentProgress, error) {
	return svc.repo.QueryCourseProgress(ctx, courseID)
}
