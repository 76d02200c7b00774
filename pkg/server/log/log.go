/* Copyright 2025 Jobtrail Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package log writes structured JSON logs for the server.
package log

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// LevelDebug represents debug log level
	LevelDebug = "debug"
	// LevelInfo represents info log level
	LevelInfo = "info"
	// LevelWarn represents warn log level
	LevelWarn = "warn"
	// LevelError represents error log level
	LevelError = "error"
)

var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
		},
	})

	return l
}

// Fields represents a set of information to be included in the log
type Fields map[string]interface{}

// Entry represents a log entry
type Entry struct {
	e *logrus.Entry
}

// WithFields creates a log entry with the given fields
func WithFields(fields Fields) Entry {
	return Entry{e: logger.WithFields(logrus.Fields(fields))}
}

func toLogrusLevel(level string) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLevel sets the global log level. Unknown levels fall back to info.
func SetLevel(level string) {
	logger.SetLevel(toLogrusLevel(level))
}

// SetOutput redirects the log output
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Debug logs the given entry at a debug level
func (e Entry) Debug(msg string) {
	e.e.Debug(msg)
}

// Info logs the given entry at an info level
func (e Entry) Info(msg string) {
	e.e.Info(msg)
}

// Warn logs the given entry at a warning level
func (e Entry) Warn(msg string) {
	e.e.Warn(msg)
}

// Error logs the given entry at an error level
func (e Entry) Error(msg string) {
	e.e.Error(msg)
}

// ErrorWrap logs the given error at an error level, annotated with msg
func (e Entry) ErrorWrap(err error, msg string) {
	e.e.WithError(err).Error(msg)
}

// Debug logs a debug message without additional fields
func Debug(msg string) {
	WithFields(Fields{}).Debug(msg)
}

// Info logs an info message without additional fields
func Info(msg string) {
	WithFields(Fields{}).Info(msg)
}

// Warn logs a warning message without additional fields
func Warn(msg string) {
	WithFields(Fields{}).Warn(msg)
}

// Error logs an error message without additional fields
func Error(msg string) {
	WithFields(Fields{}).Error(msg)
}

// ErrorWrap logs an error without additional fields, annotated with msg
func ErrorWrap(err error, msg string) {
	WithFields(Fields{}).ErrorWrap(err, msg)
}
