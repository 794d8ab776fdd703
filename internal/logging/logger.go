package logging

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
}

func NewLogger(level, format string) *Logger {
	logger := logrus.New()

	// Set log level
	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	// Set formatter
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return &Logger{Logger: logger}
}

// WithContext adds context information to log entries
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.WithFields(logrus.Fields{})

	if requestID := ctx.Value("request_id"); requestID != nil {
		entry = entry.WithField("request_id", requestID)
	}

	return entry
}

// LogDispatch logs a tool-router dispatch and its outcome
func (l *Logger) LogDispatch(operation string, duration time.Duration, success bool) {
	fields := logrus.Fields{
		"type":      "dispatch",
		"operation": operation,
		"duration":  duration.Milliseconds(),
	}

	if success {
		l.WithFields(fields).Info("Dispatch completed")
	} else {
		l.WithFields(fields).Warn("Dispatch failed")
	}
}

func (l *Logger) LogMCPCallTool(name string, arguments map[string]interface{}) {
	l.WithFields(logrus.Fields{
		"tool":      name,
		"arguments": arguments,
	}).Info("Processing MCP tool call")
}

// LogFallback records an API-path failure that escalated to the gcloud CLI
func (l *Logger) LogFallback(operation, resource, kind string) {
	l.WithFields(logrus.Fields{
		"type":      "cli_fallback",
		"operation": operation,
		"resource":  resource,
		"errorKind": kind,
	}).Warn("API call failed, falling back to gcloud CLI")
}
