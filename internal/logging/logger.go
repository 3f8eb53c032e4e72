// Package logging builds the process-wide logrus logger from configuration.
package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger with the requested level and output format.
// Unknown levels fall back to info, unknown formats to text.
func New(level, format string) *logrus.Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
