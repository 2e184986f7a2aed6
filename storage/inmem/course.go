package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (r *courseRepository) query(match func(course.Course) bool) []course.Course {
	res := make([]course.Course, 0, len(r.db.courses))
	for _, crs := range r.db.courses {
		if match == nil || match(*crs) {
			res = append(res, *crs)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (r *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	crs.ID = uuid.NewString()
	r.db.courses[crs.ID] = &crs
	return crs, nil
}

func (r *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if crs, ok := r.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (r *courseRepository) QueryAllCourses(_ context.Context) ([]course.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(nil), nil
}

func (r *courseRepository) QueryCoursesByInstructor(_ context.Context, instructorID string) ([]course.Course, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(func(crs course.Course) bool { return crs.InstructorID == instructorID }), nil
}

func (r *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.courses[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	r.db.courses[crs.ID] = &crs
	return crs, nil
}

func (r *courseRepository) DeleteCourse(_ context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.courses[id]; !ok {
		return course.ErrNotFound
	}
	delete(r.db.courses, id)
	return nil
}
