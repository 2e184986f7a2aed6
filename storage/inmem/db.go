package inmemdb

import (
	"sync"

	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/progress"
	"github.com/darasahub/darasa/core/question"
	"github.com/darasahub/darasa/core/user"
)

// DB is a mutex-guarded in-memory store, used in tests and local hacking.
type DB struct {
	mutex sync.RWMutex

	users         map[string]*user.User
	courses       map[string]*course.Course
	progress      map[string]*progress.CourseProgress // keyed userID + "/" + courseID
	notifications map[string]*notification.Notification
	questions     map[string]*question.Question
}

func Open() *DB {
	return &DB{
		users:         make(map[string]*user.User),
		courses:       make(map[string]*course.Course),
		progress:      make(map[string]*progress.CourseProgress),
		notifications: make(map[string]*notification.Notification),
		questions:     make(map[string]*question.Question),
	}
}
