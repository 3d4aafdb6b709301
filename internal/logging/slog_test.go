package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "text")

	log.Debug(context.Background(), "dbg", "a", 1)
	log.Info(context.Background(), "inf", "b", 2)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=dbg")
	assert.Contains(t, out, "a=1")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "b=2")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	log.Warn(context.Background(), "careful", "account_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "careful", line["msg"])
	assert.EqualValues(t, 7, line["account_id"])
}

func TestNew_LevelFiltersLowerMessages(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "error", "text")

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	log.Error(context.Background(), "shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "text")

	child := log.With("component", "tasks")
	child.Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "component=tasks")
	assert.Contains(t, out, "k=v")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() {
		log.Error(context.Background(), "dropped", "err", "boom")
	})
}
