package progress

import "time"

// CourseProgress tracks how far a user has gotten through a course.
// There is at most one record per (user, course) pair.
type CourseProgress struct {
	UserID       string    `json:"user_id"`
	CourseID     string    `json:"course_id"`
	Progress     int       `json:"progress"` // 0 - 100
	Completed    bool      `json:"completed"`
	LastAccessed time.Time `json:"last_accessed"` // UTC
}

// StudentProgress is a CourseProgress row joined with the student's username,
// for instructor views.
type StudentProgress struct {
	CourseProgress
	Username string `json:"username"`
}
