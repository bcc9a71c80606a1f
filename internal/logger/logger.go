package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New creates a logger with the specified level. The returned logger is
// passed explicitly to every component that logs; there is no package-level
// logger state.
func New(level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)

	return log, nil
}

// Discard returns a logger that drops all output. Intended for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
