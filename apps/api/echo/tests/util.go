package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	echoapi "github.com/darasahub/darasa/apps/api/echo"
	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/progress"
	"github.com/darasahub/darasa/core/question"
	"github.com/darasahub/darasa/core/user"
	emailsvc "github.com/darasahub/darasa/services/email"
	inmemdb "github.com/darasahub/darasa/storage/inmem"
)

var errNoAuth = httpErr{Message: "Not authorized to access this route"}

type testApp struct {
	server *echoapi.Server
	conf   *core.Config
	tokens *echoapi.TokenManager

	usrRepo   user.Repository
	crsRepo   course.Repository
	progRepo  progress.Repository
	notifRepo notification.Repository
	quesRepo  question.Repository
}

func newTestConfig() *core.Config {
	conf := &core.Config{
		TestMode:        true,
		Env:             "TEST",
		AppName:         "Darasa",
		SecretKey:       []byte("test-secret-key"),
		FrontendBaseURL: "http://front.test",
	}
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Google.ClientID = "test-client-id"
	conf.Google.ClientSecret = "test-client-secret"
	return conf
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := newTestConfig()

	// set up DB & repos
	db := inmemdb.Open()
	app := &testApp{
		conf:      conf,
		tokens:    echoapi.NewTokenManager(conf),
		usrRepo:   inmemdb.NewUserRepository(db),
		crsRepo:   inmemdb.NewCourseRepository(db),
		progRepo:  inmemdb.NewProgressRepository(db),
		notifRepo: inmemdb.NewNotificationRepository(db),
		quesRepo:  inmemdb.NewQuestionRepository(db),
	}

	// set up services
	mailSvc := emailsvc.NewDummyService()
	usrSvc := user.NewService(app.usrRepo, mailSvc, conf)
	crsSvc := course.NewService(app.crsRepo)

	// set up server
	app.server = echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         nopLogger{},
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		CourseSvc:      crsSvc,
		ProgressSvc:    progress.NewService(app.progRepo),
		NotifSvc:       notification.NewService(app.notifRepo, app.usrRepo),
		QuestionSvc:    question.NewService(app.quesRepo, app.crsRepo),
		Google:         fakeGoogle{},
	})
	return app
}

// nopLogger discards all levels except Fatal.
type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) { log.Fatal(msg) }

// fakeGoogle swaps well-known codes for a fixed profile.
type fakeGoogle struct{}

func (fakeGoogle) LoginURL(state string) string {
	return "https://accounts.test/o/oauth2/auth?state=" + state
}

func (fakeGoogle) Exchange(_ context.Context, code string) (user.FederatedProfile, error) {
	if code != "good-code" {
		return user.FederatedProfile{}, echoapi.ErrTokenInvalid
	}
	return user.FederatedProfile{
		ExternalID: "g-12345",
		Name:       "Jane Doe",
		Email:      "jane@test.cd",
		Avatar:     "https://img.test/jane.png",
	}, nil
}

type httpErr struct {
	Success bool        `json:"success"`
	Message interface{} `json:"message,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, app *testApp, usr user.User) string {
	t.Helper()
	token, err := app.tokens.Issue(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// wantData wraps obj the way the API envelopes single objects.
func wantData(t *testing.T, obj interface{}) []byte {
	return marchallObj(t, map[string]interface{}{"success": true, "data": obj})
}

// wantList wraps objs the way the API envelopes collections.
func wantList(t *testing.T, objs interface{}, count int) []byte {
	return marchallObj(t, map[string]interface{}{"success": true, "count": count, "data": objs})
}

func wantMessage(t *testing.T, msg string) []byte {
	return marchallObj(t, map[string]interface{}{"success": true, "message": msg})
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
