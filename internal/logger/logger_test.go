package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	prev := L()
	prevLevel := Verbosity()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() {
		SetLogger(prev)
		SetVerbosity(int(prevLevel))
	})
	return logs
}

func TestVerbosityGating(t *testing.T) {
	logs := observe(t)
	SetVerbosity(int(Info))

	Errorf("boom %d", 1)
	Infof("hello %s", "world")
	Debugf("hidden")
	Tracef("hidden too")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "boom 1", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "hello world", entries[1].Message)
}

func TestTraceEmitsAtDebug(t *testing.T) {
	logs := observe(t)
	SetVerbosity(int(Trace))

	Tracef("step %d", 3)

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "step 3", entries[0].Message)
}

func TestSetVerbosityOutOfRange(t *testing.T) {
	observe(t)

	SetVerbosity(42)
	assert.Equal(t, Info, Verbosity())

	SetVerbosity(-1)
	assert.Equal(t, Info, Verbosity())

	SetVerbosity(int(Error))
	assert.False(t, Enabled(Info))
	assert.True(t, Enabled(Error))
}
