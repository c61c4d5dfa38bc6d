// Package logger provides the structured logging interface used across excesoluz.
//
// It wraps zerolog with a small Logger interface so that components can take a
// logger at construction and tests can substitute NewNopLogger or NewTestLogger.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//
//	logger.WithField("id", "libro-1").Info("Progress updated")
//	logger.WithError(err).Error("Failed to persist progress")
//
// With no log file configured, output is a colored console writer on stderr.
// With a file, JSON lines are appended to it and the terminal stays quiet.
package logger
