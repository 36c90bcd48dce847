package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &ZapLogger{logger: zap.New(core).Sugar()}

	child := logger.With("worker", 2, "pid", 100)
	child.Info("Connection accepted", "remote", "127.0.0.1:5000")
	logger.Warn("No data received")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "Connection accepted", entries[0].Message)
		assert.EqualValues(t, 2, fields["worker"])
		assert.EqualValues(t, 100, fields["pid"])
		assert.Equal(t, "127.0.0.1:5000", fields["remote"])

		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.NotContains(t, entries[1].ContextMap(), "worker")
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}
