// Package ftreelog is a thin logging wrapper around logrus, shaped after
// rclone's fs.Logf/fs.Debugf/fs.Errorf free functions: each takes a
// "subject" (whatever the log line is about - a path, a node) and a
// printf-style message, and dispatches through a package-level logger.
package ftreelog

import "github.com/sirupsen/logrus"

// Logger is the backend used by Logf/Debugf/Errorf. Replaceable so an
// embedding process can route foldertree's logs into its own logrus
// instance.
var Logger = logrus.StandardLogger()

// Logf logs a noteworthy, user-facing event about subject.
func Logf(subject interface{}, format string, args ...interface{}) {
	Logger.WithField("subject", subject).Infof(format, args...)
}

// Debugf logs diagnostic detail about subject - lock contention, walk
// progress - that is uninteresting outside of -v/debug runs.
func Debugf(subject interface{}, format string, args ...interface{}) {
	Logger.WithField("subject", subject).Debugf(format, args...)
}

// Errorf logs a failure about subject.
func Errorf(subject interface{}, format string, args ...interface{}) {
	Logger.WithField("subject", subject).Errorf(format, args...)
}
