package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesLevel(t *testing.T) {
	logger := New("debug", "text")
	require.NotNil(t, logger)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger = New("WARN", "text")
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := New("verbose", "text")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNew_SelectsFormatter(t *testing.T) {
	logger := New("info", "json")
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok, "json format selects the JSON formatter")

	logger = New("info", "text")
	_, ok = logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok, "text format selects the text formatter")

	logger = New("info", "unknown")
	_, ok = logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok, "unknown format falls back to text")
}
