package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "id", "abc")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "abc", entry["id"])
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(Config{Output: &buf}), "scheduler")
	logger.Info("tick")
	assert.Contains(t, buf.String(), "component=scheduler")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	assert.NotPanics(t, func() { Component(nil, "x").Info("discarded") })
}
