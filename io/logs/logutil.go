// Package logs tees the node's log output into a file.
package logs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	logDirPermissions  = 0700
	logFilePermissions = 0600
)

// ConfigurePersistentLogging appends every log line written to the standard
// logger to logFileName as well, creating its directory if needed.
func ConfigurePersistentLogging(logFileName string) error {
	if err := os.MkdirAll(filepath.Dir(logFileName), logDirPermissions); err != nil {
		return errors.Wrap(err, "could not create log directory")
	}
	f, err := os.OpenFile(filepath.Clean(logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return errors.Wrap(err, "could not open log file")
	}
	std := logrus.StandardLogger()
	std.SetOutput(io.MultiWriter(std.Out, f))
	logrus.WithField("logFileName", logFileName).Info("File logging initialized")
	return nil
}
