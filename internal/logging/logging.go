package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the module's logger: JSON lines at the given level. The level
// falls back to info when unparseable.
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// NewSilent builds a discard logger for tests and embedding callers that do
// their own logging.
func NewSilent() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
