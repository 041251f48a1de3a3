package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/parsec/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newTestLogger() (*logger.Logger, *bytes.Buffer) {
	l := logger.New()
	buf := &bytes.Buffer{}
	l.SetOutput(buf)
	return l, buf
}

func TestLogger_Info(t *testing.T) {
	l, buf := newTestLogger()
	l.Info("session started")

	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "session started")
}

func TestLogger_Warn(t *testing.T) {
	l, buf := newTestLogger()
	l.Warn("speculative parse failed")

	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "speculative parse failed")
}

func TestLogger_Error(t *testing.T) {
	l, buf := newTestLogger()
	l.Error(zerr.With(zerr.New("parse failed"), "build_file", "/repo/foo/BUILD.yaml"))

	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "parse failed")
}

func TestLogger_ErrorNilIsNoOp(t *testing.T) {
	l, buf := newTestLogger()
	l.Error(nil)

	assert.Empty(t, buf.String())
}
