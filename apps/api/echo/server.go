package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/progress"
	"github.com/darasahub/darasa/core/question"
	"github.com/darasahub/darasa/core/user"
)

type (
	Options struct {
		Addr           string
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc     *user.Service
		CourseSvc   *course.Service
		ProgressSvc *progress.Service
		NotifSvc    *notification.Service
		QuestionSvc *question.Service
		Google      FederatedProvider
	}

	Server struct {
		opts       *Options
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

func NewServer(opts *Options) *Server {
	s := &Server{
		opts:       opts,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	reg := prometheus.NewRegistry()
	mtcs := newMetrics(reg)
	s.app.Use(mtcs.middleware())

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	tokens := NewTokenManager(conf)
	authed := authMiddleware(tokens, s.opts.UserSvc)

	api := s.app.Group("/api")
	registerAuthAPI(api, authed, s.opts.UserSvc, tokens, s.opts.Google, conf, mtcs)
	registerUserAPI(api, authed, s.opts.UserSvc)
	registerCourseAPI(api, authed, s.opts.CourseSvc)
	registerProgressAPI(api, authed, s.opts.ProgressSvc, s.opts.CourseSvc)
	registerNotificationAPI(api, authed, s.opts.NotifSvc)
	registerQuestionAPI(api, authed, s.opts.QuestionSvc, s.opts.CourseSvc)
}

// Start runs the listener. It does not block; termination is reported on
// Errors() and OS signals on ShutdownSignal().
func (s *Server) Start() {
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		s.errCh <- s.app.Start(s.opts.Addr)
	}()
}

func (s *Server) Errors() <-chan error {
	return s.errCh
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
