// Copyright © 2018 One Concern

package dlogger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetLogger(t *testing.T) {
	for _, level := range []string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		lvl := level
		t.Run(lvl, func(t *testing.T) {
			l, err := GetLogger(lvl)
			require.NoError(t, err)
			var want zapcore.Level
			require.NoError(t, want.UnmarshalText([]byte(lvl)))
			assert.True(t, l.Core().Enabled(want))
			assert.False(t, l.Core().Enabled(want-1))
		})
	}

	l, err := GetLogger(LogLevelNone)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.FatalLevel))

	_, err = GetLogger("verbose")
	assert.Error(t, err)
	assert.Panics(t, func() { _ = MustGetLogger("verbose") })
}
