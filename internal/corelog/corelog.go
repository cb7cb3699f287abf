// Package corelog wraps logrus with the subsystem-tagging convention used
// throughout this core: every call site gets a field identifying which
// component (vfs, signal, hostfs, ...) produced the entry.
package corelog

import "github.com/sirupsen/logrus"

// For returns a logger entry tagged with subsystem, ready for
// Debugf/Infof/Warnf/Errorf calls.
func For(subsystem string) *logrus.Entry {
	return logrus.WithField("subsystem", subsystem)
}

// New builds a standalone logger at the given level, used by cmd/
// entrypoints that want their own output stream instead of the package
// logger.
func New(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	return l
}
