package logger

import (
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger.
func Setup(level, format string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// InitSentry enables error capture when a DSN is configured.
// Without a DSN, sentry calls become no-ops.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
}

// CaptureError logs err at warn level and reports it to sentry.
func CaptureError(entry *logrus.Entry, err error, msg string) {
	entry.WithError(err).Warn(msg)
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range entry.Data {
			scope.SetExtra(k, v)
		}
		scope.SetTag("message", msg)
		sentry.CaptureException(err)
	})
}
