package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = New(os.Stdout, logrus.InfoLevel, "json")

// New builds a logrus logger writing to out. format is "json" or "text".
func New(out io.Writer, level logrus.Level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log = New(os.Stdout, lvl, format)
}

// SetOutput swaps the process logger, mainly for tests.
func SetOutput(l *logrus.Logger) {
	log = l
}

// With returns an entry carrying the given key/value pairs.
func With(keyvals ...interface{}) *logrus.Entry {
	return log.WithFields(fields(keyvals))
}

func Info(msg string, keyvals ...interface{}) {
	With(keyvals...).Info(msg)
}

func Infof(format string, v ...interface{}) {
	log.Infof(format, v...)
}

func Warn(msg string, keyvals ...interface{}) {
	With(keyvals...).Warn(msg)
}

func Warnf(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

func Error(msg string, keyvals ...interface{}) {
	With(keyvals...).Error(msg)
}

func Errorf(format string, v ...interface{}) {
	log.Errorf(format, v...)
}

func Debug(msg string, keyvals ...interface{}) {
	With(keyvals...).Debug(msg)
}

func Debugf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

func Fatal(msg string, keyvals ...interface{}) {
	With(keyvals...).Fatal(msg)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

func fields(keyvals []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 >= len(keyvals) {
			f[key] = "(missing)"
			break
		}
		if err, ok := keyvals[i+1].(error); ok {
			f[key] = err.Error()
			continue
		}
		f[key] = keyvals[i+1]
	}
	return f
}
