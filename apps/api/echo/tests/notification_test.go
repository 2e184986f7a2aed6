package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/user"
	"github.com/darasahub/darasa/tests"
)

func mockNotificationNow(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2023, 5, 12, 10, 0, 0, 0, time.UTC)
	notification.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { notification.NowFunc = time.Now })
	return now
}

func sendNotification(t *testing.T, app *testApp, from user.User, toID, title string, createdAt time.Time) notification.Notification {
	t.Helper()
	n, err := app.notifRepo.CreateNotification(context.Background(), notification.Notification{
		Title:        title,
		Message:      "hello",
		FromID:       from.ID,
		FromUsername: from.Username,
		ToID:         toID,
		CreatedAt:    createdAt,
	})
	require.NoError(t, err)
	return n
}

func Test_notificationApi_query(t *testing.T) {
	app := setup(t)
	now := mockNotificationNow(t)

	teacher := testutil.CreateUser(t, app.usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, app.usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)

	older := sendNotification(t, app, teacher, student.ID, "Older", now.Add(-time.Hour))
	newer := sendNotification(t, app, teacher, student.ID, "Newer", now)
	sendNotification(t, app, student, teacher.ID, "Not yours", now)

	tests := []httpTest{
		{
			name: "Auth required", path: "/api/notifications",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNoAuth),
		},
		{
			name: "own inbox, newest first", path: "/api/notifications",
			token:    getToken(t, app, student),
			wantCode: http.StatusOK, wantData: wantList(t, []notification.Notification{newer, older}, 2),
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

func Test_notificationApi_send(t *testing.T) {
	app := setup(t)
	now := mockNotificationNow(t)

	teacher := testutil.CreateUser(t, app.usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, app.usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)

	t.Run("unknown recipient", func(t *testing.T) {
		body := []byte(`{"title":"Hi","message":"hello","to":"nope"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/notifications", getToken(t, app, teacher), body)
		app.server.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: "Recipient user not found"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("missing fields", func(t *testing.T) {
		body := []byte(`{"to":"` + student.ID + `"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/notifications", getToken(t, app, teacher), body)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("sends a notification", func(t *testing.T) {
		body := []byte(`{"title":"New material","message":"Chapter 3 is up","to":"` + student.ID + `"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/notifications", getToken(t, app, teacher), body)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		notifs, err := app.notifRepo.QueryUserNotifications(context.Background(), student.ID)
		require.NoError(t, err)
		require.Len(t, notifs, 1)
		n := notifs[0]
		assert.Equal(t, "New material", n.Title)
		assert.Equal(t, teacher.ID, n.FromID)
		assert.Equal(t, teacher.Username, n.FromUsername)
		assert.Equal(t, student.ID, n.ToID)
		assert.False(t, n.Read)
		assert.Equal(t, now, n.CreatedAt)
	})
}

func Test_notificationApi_markRead(t *testing.T) {
	app := setup(t)
	now := mockNotificationNow(t)

	teacher := testutil.CreateUser(t, app.usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, app.usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	other := testutil.CreateUser(t, app.usrRepo, "other", "other@test.cd", "", user.RoleStudent)

	notif := sendNotification(t, app, teacher, student.ID, "Hi", now)

	tests := []httpTest{
		{
			name: "unknown notification", method: http.MethodPut, path: "/api/notifications/nope",
			token:    getToken(t, app, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Notification not found"}),
		},
		{
			name: "only the recipient may mark read", method: http.MethodPut, path: "/api/notifications/" + notif.ID,
			token:    getToken(t, app, other),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Message: "Not authorized to access this notification"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("recipient marks read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/api/notifications/"+notif.ID, getToken(t, app, student))
		app.server.ServeHTTP(rec, req)

		read := notif
		read.Read = true
		tt := httpTest{wantCode: http.StatusOK, wantData: wantData(t, read)}
		checkCodeAndData(t, tt, rec)
	})
}

func Test_notificationApi_markAllRead(t *testing.T) {
	app := setup(t)
	now := mockNotificationNow(t)

	teacher := testutil.CreateUser(t, app.usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, app.usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)

	sendNotification(t, app, teacher, student.ID, "One", now.Add(-time.Hour))
	sendNotification(t, app, teacher, student.ID, "Two", now)
	kept := sendNotification(t, app, student, teacher.ID, "Not yours", now)

	req, rec := newAuthRequest(http.MethodPut, "/api/notifications/read-all", getToken(t, app, student))
	app.server.ServeHTTP(rec, req)

	tt := httpTest{wantCode: http.StatusOK, wantData: wantMessage(t, "All notifications marked as read")}
	checkCodeAndData(t, tt, rec)

	notifs, err := app.notifRepo.QueryUserNotifications(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	for _, n := range notifs {
		assert.True(t, n.Read, n.Title)
	}

	refreshed, err := app.notifRepo.GetNotificationByID(context.Background(), kept.ID)
	require.NoError(t, err)
	assert.False(t, refreshed.Read)
}
