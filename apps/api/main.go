package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	echoapi "github.com/darasahub/darasa/apps/api/echo"
	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/course"
	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/progress"
	"github.com/darasahub/darasa/core/question"
	"github.com/darasahub/darasa/core/user"
	emailsvc "github.com/darasahub/darasa/services/email"
	logsvc "github.com/darasahub/darasa/services/logger"
	ssosvc "github.com/darasahub/darasa/services/sso"
	"github.com/darasahub/darasa/storage/mongodb"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %+v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := mongodb.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Client().Disconnect(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("disconnecting database: %v", err), err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err = mongodb.EnsureIndexes(ctx, db); err != nil {
		cancel()
		logger.Fatal(fmt.Sprintf("ensuring indexes: %v", err), err)
	}
	cancel()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := mongodb.NewUserRepository(db)
	crsRepo := mongodb.NewCourseRepository(db)

	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	crsSvc := course.NewService(crsRepo)
	progSvc := progress.NewService(mongodb.NewProgressRepository(db))
	notifSvc := notification.NewService(mongodb.NewNotificationRepository(db), usrRepo)
	questSvc := question.NewService(mongodb.NewQuestionRepository(db), crsRepo)

	var google echoapi.FederatedProvider
	if conf.Google.Enabled() {
		google = ssosvc.NewGoogleProvider(conf)
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(&echoapi.Options{
		Addr:        conf.Server.Addr,
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		CourseSvc:   crsSvc,
		ProgressSvc: progSvc,
		NotifSvc:    notifSvc,
		QuestionSvc: questSvc,
		Google:      google,
	})
	server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
