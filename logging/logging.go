// Package logging configures the process-wide logrus logger. Output goes to
// a file because stdout is owned by the terminal UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup points the standard logrus logger at the given file with the given
// level. An empty file discards log output entirely.
func Setup(logFile, level string) error {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})

	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		logrus.SetLevel(parsed)
	}

	if logFile == "" {
		logrus.SetOutput(io.Discard)
		return nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", logFile, err)
	}
	logrus.SetOutput(f)
	return nil
}
