package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(level logrus.Level) *bytes.Buffer {
	var buf bytes.Buffer
	SetOutput(New(&buf, level, "json"))
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestInit(t *testing.T) {
	Init("debug", "text")
	assert.NotNil(t, log)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	Init("nonsense", "json")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestInfo_WithFields(t *testing.T) {
	buf := captureLogger(logrus.InfoLevel)

	Info("gym provisioned", "gym_id", 7, "trigger", "explicit")

	entry := decodeLine(t, buf)
	assert.Equal(t, "gym provisioned", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(7), entry["gym_id"])
	assert.Equal(t, "explicit", entry["trigger"])
}

func TestError_StringifiesErrors(t *testing.T) {
	buf := captureLogger(logrus.InfoLevel)

	Error("subscribe failed", "error", errors.New("boom"))

	entry := decodeLine(t, buf)
	assert.Equal(t, "boom", entry["error"])
}

func TestOddKeyvals(t *testing.T) {
	buf := captureLogger(logrus.InfoLevel)

	Warn("dangling", "key")

	entry := decodeLine(t, buf)
	assert.Equal(t, "(missing)", entry["key"])
}

func TestDebug_FilteredByLevel(t *testing.T) {
	buf := captureLogger(logrus.InfoLevel)
	Debug("hidden")
	assert.Empty(t, buf.String())

	buf = captureLogger(logrus.DebugLevel)
	Debugf("shown %d", 1)
	assert.Contains(t, buf.String(), "shown 1")
}

func TestInfof(t *testing.T) {
	buf := captureLogger(logrus.InfoLevel)

	Infof("test %s", "message")

	assert.Contains(t, buf.String(), "test message")
}
