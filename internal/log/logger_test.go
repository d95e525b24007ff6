package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentStorage, Output: &buf})

	l.Info("saved", FieldKey, "money-mike-state")
	out := buf.String()
	assert.Contains(t, out, "component=storage")
	assert.Contains(t, out, "storage_key=money-mike-state")

	buf.Reset()
	l.WithComponent(ComponentTracker).Warn("save failed")
	assert.Contains(t, buf.String(), "component=tracker")
}

func TestLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: ComponentApp, Output: &buf}).With(FieldKey, "k")
	l.WithComponent(ComponentDaemon).Info("poll")

	out := buf.String()
	assert.Contains(t, out, "component=daemon")
	assert.NotContains(t, out, "component=app")
	assert.Contains(t, out, "storage_key=k")
}
