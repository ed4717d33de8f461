package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// Init configures the process-wide logger. Level comes from LOG_LEVEL;
// anything unrecognised falls back to info.
func Init() {
	log = logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	switch os.Getenv("LOG_LEVEL") {
	case "DEBUG":
		log.SetLevel(logrus.DebugLevel)
	case "WARN":
		log.SetLevel(logrus.WarnLevel)
	case "ERROR":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

func Get() *logrus.Logger {
	if log == nil {
		Init()
	}
	return log
}

// WithComponent scopes log entries to a subsystem name.
func WithComponent(component string) *logrus.Entry {
	return Get().WithField("component", component)
}

// WithTicket scopes log entries to a ticket id.
func WithTicket(ticketID uint) *logrus.Entry {
	return Get().WithFields(logrus.Fields{
		"component": "ticket_engine",
		"ticket_id": ticketID,
	})
}
