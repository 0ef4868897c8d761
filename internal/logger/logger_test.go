package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedEntry(level logrus.Level) (*logrus.Entry, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(level)
	setLoggerFormat(l, "json")
	return logrus.NewEntry(l), &buf
}

func TestGetLogger_FallsBackToGlobal(t *testing.T) {
	entry := G(context.Background())
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLogger(t *testing.T) {
	custom, _ := newBufferedEntry(logrus.InfoLevel)
	ctx := WithLogger(context.Background(), custom)
	assert.Equal(t, custom.Logger, G(ctx).Logger)
}

func TestTrace_EmitsFieldsAtDebug(t *testing.T) {
	entry, buf := newBufferedEntry(logrus.DebugLevel)
	ctx := WithLogger(context.Background(), entry)

	Trace(ctx, "tool.read_file.input", map[string]any{"path": "a.txt"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "tool.read_file.input", line["message"])
	assert.Equal(t, "a.txt", line["path"])
	assert.Equal(t, "debug", line["level"])
}

func TestTrace_SilentAboveDebug(t *testing.T) {
	entry, buf := newBufferedEntry(logrus.InfoLevel)
	ctx := WithLogger(context.Background(), entry)

	Trace(ctx, "skills.list", "ignored")
	assert.Zero(t, buf.Len())
}

func TestConfigure(t *testing.T) {
	defer Configure(false, "text")

	Configure(true, "json")
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, L.Logger.Formatter)

	Configure(false, "text")
	assert.Equal(t, logrus.InfoLevel, L.Logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, L.Logger.Formatter)
}
