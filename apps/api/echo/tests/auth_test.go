package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahub/darasa/core/user"
	"github.com/darasahub/darasa/tests"
)

type authResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    user.User `json:"user"`
}

func Test_authApi_register(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, app.usrRepo, "taken", "taken@test.cd", "", user.RoleStudent)

	t.Run("valid registration", func(t *testing.T) {
		body := []byte(`{"username":"awe","email":"awe@test.cd","password":"S3kr3t!pass","role":"teacher"}`)
		req, rec := newRequest(http.MethodPost, "/api/auth/register", body)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp authResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "awe", resp.User.Username)
		assert.Equal(t, "awe@test.cd", resp.User.Email)
		assert.Equal(t, user.RoleTeacher, resp.User.Role)
		assert.False(t, resp.User.LastLogin.IsZero())

		claims, err := app.tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.Subject)
		assert.Equal(t, user.RoleTeacher, claims.Role)
	})

	t.Run("role defaults to student", func(t *testing.T) {
		body := []byte(`{"username":"dealo","email":"dealo@test.cd","password":"S3kr3t!pass"}`)
		req, rec := newRequest(http.MethodPost, "/api/auth/register", body)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp authResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.RoleStudent, resp.User.Role)
	})

	tests := []httpTest{
		{
			name: "duplicate email", method: http.MethodPost, path: "/api/auth/register",
			body:     []byte(`{"username":"other","email":"taken@test.cd","password":"S3kr3t!pass"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: map[string]string{"email": "Email already in use"}}),
		},
		{
			name: "missing password", method: http.MethodPost, path: "/api/auth/register",
			body:     []byte(`{"username":"other","email":"other@test.cd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "this field is required"}),
		},
		{
			name: "invalid role", method: http.MethodPost, path: "/api/auth/register",
			body:     []byte(`{"username":"other","email":"other@test.cd","password":"S3kr3t!pass","role":"boss"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "role must be one of student, teacher or admin"}),
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

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.usrRepo, "awe", "awe@test.cd", "S3kr3t!pass", user.RoleStudent)

	t.Run("valid credentials", func(t *testing.T) {
		body := []byte(`{"email":"awe@test.cd","password":"S3kr3t!pass"}`)
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp authResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, usr.ID, resp.User.ID)
		assert.True(t, resp.User.LastLogin.After(usr.LastLogin))

		claims, err := app.tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, usr.ID, claims.Subject)
	})

	invalidCreds := marchallObj(t, httpErr{Message: "Invalid credentials"})
	tests := []httpTest{
		{
			name: "wrong password", method: http.MethodPost, path: "/api/auth/login",
			body:     []byte(`{"email":"awe@test.cd","password":"nope"}`),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "unknown email is indistinguishable", method: http.MethodPost, path: "/api/auth/login",
			body:     []byte(`{"email":"ghost@test.cd","password":"nope"}`),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/api/auth/login",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Message: "this field is required, this field is required"}),
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

func Test_authApi_me(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, app.usrRepo, "awe", "awe@test.cd", "", user.RoleStudent)

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/me")
		app.server.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNoAuth)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &jwt.StandardClaims{
			Subject:   usr.ID,
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
			IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(app.conf.SecretKey)
		require.NoError(t, err)

		req, rec := newAuthRequest(http.MethodGet, "/api/auth/me", expired)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		token := getToken(t, app, usr)
		req, rec := newAuthRequest(http.MethodGet, "/api/auth/me", token+"x")
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/auth/me", getToken(t, app, usr))
		app.server.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusOK, wantData: wantData(t, usr)}
		checkCodeAndData(t, tt, rec)
	})
}

func Test_authApi_google(t *testing.T) {
	app := setup(t)

	t.Run("login redirects with state cookie", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/google")
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

		var state string
		for _, c := range rec.Result().Cookies() {
			if c.Name == "oauthstate" {
				state = c.Value
			}
		}
		require.NotEmpty(t, state)
		assert.Equal(t, "https://accounts.test/o/oauth2/auth?state="+state, rec.Header().Get("Location"))
	})

	t.Run("callback creates user and redirects to frontend", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/google/callback?state=abc&code=good-code")
		req.AddCookie(&http.Cookie{Name: "oauthstate", Value: "abc"})
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())

		loc := rec.Header().Get("Location")
		require.True(t, strings.HasPrefix(loc, app.conf.FrontendBaseURL+"/auth/success?token="), loc)

		token := strings.TrimPrefix(loc, app.conf.FrontendBaseURL+"/auth/success?token=")
		claims, err := app.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "jane_doe", claims.Username)

		usr, err := app.usrRepo.GetUserByGoogleID(req.Context(), "g-12345")
		require.NoError(t, err)
		assert.Equal(t, "jane@test.cd", usr.Email)
		assert.Equal(t, user.RoleStudent, usr.Role)
	})

	t.Run("callback is idempotent on the external id", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/google/callback?state=abc&code=good-code")
		req.AddCookie(&http.Cookie{Name: "oauthstate", Value: "abc"})
		app.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)

		users, err := app.usrRepo.QueryAllUsers(req.Context())
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("callback rejects state mismatch", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/google/callback?state=evil&code=good-code")
		req.AddCookie(&http.Cookie{Name: "oauthstate", Value: "abc"})
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("callback rejects bad code", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/google/callback?state=abc&code=bad-code")
		req.AddCookie(&http.Cookie{Name: "oauthstate", Value: "abc"})
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
