package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/oscardef/tutorassist/apps/api/echo"
	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/answer"
	"github.com/oscardef/tutorassist/core/attempt"
	"github.com/oscardef/tutorassist/core/question"
	"github.com/oscardef/tutorassist/core/user"
	emailsvc "github.com/oscardef/tutorassist/services/email"
	logsvc "github.com/oscardef/tutorassist/services/logger"
	"github.com/oscardef/tutorassist/storage/database"
	sqlxrepos "github.com/oscardef/tutorassist/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()
	if err = database.Migrate(db.DB); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	qstSvc := question.NewService(sqlxrepos.NewQuestionRepository(db))
	attSvc := attempt.NewService(
		sqlxrepos.NewAttemptRepository(db),
		qstSvc,
		usrSvc,
		answer.NewChecker(answer.ParseMode(core.Conf.AnswerMatchingMode)),
		mailSvc,
		logger,
	)

	logger.Info(fmt.Sprintf("Application initializing : version %q : env %q", core.Conf.Build, core.Conf.Env))
	defer logger.Info("Application stopped")

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     core.Conf.ServerAddress(),
			UserSvc:     usrSvc,
			QuestionSvc: qstSvc,
			AttemptSvc:  attSvc,
			Logger:      logger,
			SignalShutdown: func() {
				shutdown <- syscall.SIGTERM
			},
		},
	)

	go app.Start()
	logger.Info(fmt.Sprintf("API server listening on %q", core.Conf.ServerAddress()))

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: starting shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = app.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}
