package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingToggle(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { EnableLogging(true) })

	Info("session=%d started", 7)
	assert.Contains(t, buf.String(), "session=7 started")

	buf.Reset()
	EnableLogging(false)
	Error("should not show")
	assert.Empty(t, buf.String())
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, SetLevel("info"))
	assert.Error(t, SetLevel("loud"))
}
