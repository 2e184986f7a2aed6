package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/user"
	"github.com/darasahub/darasa/tests"
)

type courseResponse struct {
	Success bool          `json:"success"`
	Data    course.Course `json:"data"`
}

func Test_courseApi_query(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, app.usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher)
	crs1 := testutil.CreateCourse(t, app.crsRepo, "Intro to Go", teacher)
	crs2 := testutil.CreateCourse(t, app.crsRepo, "Advanced Go", teacher)

	tests := []httpTest{
		{
			name: "Get all is public, newest first", path: "/api/courses",
			wantCode: http.StatusOK, wantData: wantList(t, []course.Course{crs2, crs1}, 2),
		},
		{
			name: "Get one is public", path: "/api/courses/" + crs1.ID,
			wantCode: http.StatusOK, wantData: wantData(t, crs1),
		},
		{
			name: "unknown course", path: "/api/courses/nope",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Course not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_create(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, app.usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	teacher := testutil.CreateUser(t, app.usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher)

	body := []byte(`{"title":"Intro to Go","description":"The basics","type":"video","content":"https://videos.test/go.mp4"}`)

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: "/api/courses", body: body,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNoAuth),
		},
		{
			name: "Teacher or admin required", method: http.MethodPost, path: "/api/courses", body: body,
			token:    getToken(t, app, student),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "user role student is not authorized to access this route"}),
		},
		{
			name: "invalid type", method: http.MethodPost, path: "/api/courses",
			body:  []byte(`{"title":"Intro","description":"x","type":"podcast","content":"y"}`),
			token: getToken(t, app, teacher), wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			} else {
				assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("teacher creates a course", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/courses", getToken(t, app, teacher), body)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp courseResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Intro to Go", resp.Data.Title)
		assert.Equal(t, teacher.ID, resp.Data.InstructorID)
		assert.Equal(t, teacher.Username, resp.Data.InstructorName)
		assert.Equal(t, course.DifficultyBeginner, resp.Data.Difficulty)
		assert.Equal(t, course.StatusDraft, resp.Data.Status)
	})
}

func Test_courseApi_update(t *testing.T) {
	app := setup(t)

	owner := testutil.CreateUser(t, app.usrRepo, "owner", "owner@test.cd", "", user.RoleTeacher)
	other := testutil.CreateUser(t, app.usrRepo, "other", "other@test.cd", "", user.RoleTeacher)
	admin := testutil.CreateUser(t, app.usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin)
	crs := testutil.CreateCourse(t, app.crsRepo, "Intro to Go", owner)

	t.Run("other teachers may not update", func(t *testing.T) {
		body := []byte(`{"title":"Hijacked"}`)
		req, rec := newAuthRequest(http.MethodPut, "/api/courses/"+crs.ID, getToken(t, app, other), body)
		app.server.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "Not authorized to update this course"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("owner updates, zero fields keep originals", func(t *testing.T) {
		body := []byte(`{"title":"Intro to Go, 2nd ed","difficulty":"intermediate"}`)
		req, rec := newAuthRequest(http.MethodPut, "/api/courses/"+crs.ID, getToken(t, app, owner), body)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		refreshed, err := app.crsRepo.GetCourseByID(context.Background(), crs.ID)
		require.NoError(t, err)
		assert.Equal(t, "Intro to Go, 2nd ed", refreshed.Title)
		assert.Equal(t, course.DifficultyIntermediate, refreshed.Difficulty)
		assert.Equal(t, crs.Description, refreshed.Description)
		assert.Equal(t, crs.Content, refreshed.Content)
	})

	t.Run("admin may update any course", func(t *testing.T) {
		body := []byte(`{"status":"archived"}`)
		req, rec := newAuthRequest(http.MethodPut, "/api/courses/"+crs.ID, getToken(t, app, admin), body)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func Test_courseApi_destroy(t *testing.T) {
	app := setup(t)

	owner := testutil.CreateUser(t, app.usrRepo, "owner", "owner@test.cd", "", user.RoleTeacher)
	other := testutil.CreateUser(t, app.usrRepo, "other", "other@test.cd", "", user.RoleTeacher)
	crs := testutil.CreateCourse(t, app.crsRepo, "Intro to Go", owner)

	t.Run("other teachers may not delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/courses/"+crs.ID, getToken(t, app, other))
		app.server.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "Not authorized to delete this course"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("owner deletes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/courses/"+crs.ID, getToken(t, app, owner))
		app.server.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusOK, wantData: wantData(t, map[string]interface{}{})}
		checkCodeAndData(t, tt, rec)

		_, err := app.crsRepo.GetCourseByID(context.Background(), crs.ID)
		assert.Equal(t, course.ErrNotFound, err)
	})
}

func Test_courseApi_queryMine(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateUser(t, app.usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher)
	other := testutil.CreateUser(t, app.usrRepo, "other", "other@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, app.usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)

	crs := testutil.CreateCourse(t, app.crsRepo, "Intro to Go", teacher)
	testutil.CreateCourse(t, app.crsRepo, "Other's course", other)

	tests := []httpTest{
		{
			name: "Teacher required", path: "/api/courses/instructor/me", token: getToken(t, app, student),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "user role student is not authorized to access this route"}),
		},
		{
			name: "only own courses", path: "/api/courses/instructor/me", token: getToken(t, app, teacher),
			wantCode: http.StatusOK, wantData: wantList(t, []course.Course{crs}, 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
