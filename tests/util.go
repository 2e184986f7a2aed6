package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, email, pwd, role string,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Username:  uname,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		LastLogin: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	title string,
	instructor user.User,
	createdAt ...time.Time,
) course.Course {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	crs := course.Course{
		Title:          title,
		Description:    "A test course",
		Type:           course.TypeVideo,
		Content:        "https://videos.test/intro.mp4",
		InstructorID:   instructor.ID,
		InstructorName: instructor.Username,
		Difficulty:     course.DifficultyBeginner,
		Status:         course.StatusPublished,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	}
	crs, err := repo.CreateCourse(context.Background(), crs)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}
