package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/user"
)

// RollbarLogger reports to Rollbar and mirrors everything on a standard
// logger. A user.User anywhere in the args tags the Rollbar item with the
// student or tutor it concerns.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// report mirrors the message locally, tags the item with the first user.User
// found in args, then forwards the rest to Rollbar at the given level.
func (l RollbarLogger) report(level, msg string, args []interface{}) {
	l.std.Println(msg)

	items := make([]interface{}, 0, len(args)+1)
	items = append(items, msg)
	var tagged bool
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
		if usr, ok := arg.(user.User); ok {
			if !tagged {
				rollbar.SetPerson(usr.ID, usr.Username, usr.Email)
				tagged = true
			}
			continue
		}
		items = append(items, arg)
	}
	if !tagged {
		rollbar.ClearPerson()
	}

	switch level {
	case rollbar.DEBUG:
		rollbar.Debug(items...)
	case rollbar.INFO:
		rollbar.Info(items...)
	case rollbar.WARN:
		rollbar.Warning(items...)
	case rollbar.ERR:
		rollbar.Error(items...)
	default:
		rollbar.Critical(items...)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.report(rollbar.DEBUG, msg, args) }

func (l RollbarLogger) Info(msg string, args ...interface{}) { l.report(rollbar.INFO, msg, args) }

func (l RollbarLogger) Warn(msg string, args ...interface{}) { l.report(rollbar.WARN, msg, args) }

func (l RollbarLogger) Error(msg string, args ...interface{}) { l.report(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	l.std.Fatal(msg)
}
