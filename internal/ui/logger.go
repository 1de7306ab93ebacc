// Package ui holds terminal presentation helpers: logging, spinners and
// lipgloss tables.
package ui

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the CLI logger. verbose forces debug level regardless of
// the configured level.
func NewLogger(w io.Writer, level string, json, verbose bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		return logger, nil
	}

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}
