package gdklog

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseLoggerDefaultsDisabled(t *testing.T) {
	assert.Equal(t, btclog.Disabled, Logger())
}

func TestUseLoggerInstallsLogger(t *testing.T) {
	defer UseLogger(btclog.Disabled)

	var buf bytes.Buffer
	backend := btclog.NewBackend(&buf)
	logger := backend.Logger("TEST")
	level, ok := btclog.LevelFromString("debug")
	require.True(t, ok)
	logger.SetLevel(level)

	UseLogger(logger)
	assert.Equal(t, logger, Logger())

	Warnf("hello %s", "world")
	require.Contains(t, buf.String(), "hello world")
}
