package inmemdb

import (
	"context"
	"sort"

	"github.com/darasahub/darasa/core/progress"
)

type progressRepository struct {
	db *DB
}

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db}
}

func progressKey(userID, courseID string) string {
	return userID + "/" + courseID
}

func (r *progressRepository) UpsertProgress(_ context.Context, cp progress.CourseProgress) (progress.CourseProgress, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.progress[progressKey(cp.UserID, cp.CourseID)] = &cp
	return cp, nil
}

func (r *progressRepository) GetProgress(_ context.Context, userID, courseID string) (progress.CourseProgress, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if cp, ok := r.db.progress[progressKey(userID, courseID)]; ok {
		return *cp, nil
	}
	return progress.CourseProgress{}, progress.ErrNotFound
}

func (r *progressRepository) QueryUserProgress(_ context.Context, userID string) ([]progress.CourseProgress, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]progress.CourseProgress, 0)
	for _, cp := range r.db.progress {
		if cp.UserID == userID {
			res = append(res, *cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].LastAccessed.After(res[j].LastAccessed) })
	return res, nil
}

func (r *progressRepository) QueryCourseProgress(_ context.Context, courseID string) ([]progress.StudentProgress, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]progress.StudentProgress, 0)
	for _, cp := range r.db.progress {
		if cp.CourseID == courseID {
			row := progress.StudentProgress{CourseProgress: *cp}
			if usr, ok := r.db.users[cp.UserID]; ok {
				row.Username = usr.Username
			}
			res = append(res, row)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].LastAccessed.After(res[j].LastAccessed) })
	return res, nil
}
